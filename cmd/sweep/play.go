package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/gridsweeper/internal/commands"
	"github.com/vancomm/gridsweeper/internal/mines"
)

type logObserver struct {
	log *logrus.Logger
}

func (o logObserver) CellChanged(c mines.Cell) {
	o.log.WithFields(logrus.Fields{
		"cell":     c.Point.String(),
		"revealed": !c.Concealed,
		"flagged":  c.Flagged,
	}).Debug("cell changed")
}

func (o logObserver) StatusChanged(s mines.Status, message string) {
	o.log.WithField("status", s.String()).Info(message)
}

func render(out io.Writer, g *mines.Game) {
	fmt.Fprint(out, g.PlayerGrid().ToString(g.Size))
	fmt.Fprintln(out, g.Message())
}

// play renders g, then applies one command per input line until "q" or
// the end of input.
func play(in io.Reader, out io.Writer, g *mines.Game) error {
	render(out, g)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return nil
		}
		cmd, err := commands.Parse(line)
		if err != nil {
			fmt.Fprintf(out, "%s: %q\n", err, line)
			continue
		}
		commands.Execute(g, cmd)
		render(out, g)
	}
	return scanner.Err()
}
