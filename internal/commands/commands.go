// Package commands implements the line protocol front ends use to drive a
// game: "g" fetches, "o x y" reveals, "f x y" toggles a flag and "r" resets.
package commands

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/gridsweeper/internal/mines"
)

type Verb string

const (
	Noop   Verb = "g"
	Reveal Verb = "o"
	Flag   Verb = "f"
	Reset  Verb = "r"
)

// Maps known commands to number of arguments
var commandNargs = map[Verb]int{
	Noop:   0,
	Reveal: 2,
	Flag:   2,
	Reset:  0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadNargs       = errors.New("invalid number of arguments")
)

type Command struct {
	Verb Verb
	X, Y int
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func Parse(line string) (cmd Command, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return cmd, ErrUnknownCommand
	}
	verb := Verb(parts[0])
	nargs, ok := commandNargs[verb]
	if !ok {
		return cmd, ErrUnknownCommand
	}
	if nargs != len(parts)-1 {
		return cmd, ErrBadNargs
	}
	cmd.Verb = verb
	if nargs == 2 {
		cmd.X, cmd.Y, err = parseXY(parts[1:])
	}
	return
}

// Execute applies cmd to g. Coordinates off the board are left to the game,
// which ignores them.
func Execute(g *mines.Game, cmd Command) mines.Update {
	switch cmd.Verb {
	case Reveal:
		return g.PrimaryAction(cmd.X, cmd.Y)
	case Flag:
		return g.SecondaryAction(cmd.X, cmd.Y)
	case Reset:
		g.Reset()
	}
	return nil
}

// Lines iterates over the newline separated commands in s.
func Lines(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			if !yield(i, strings.TrimSpace(piece)) {
				return
			}
			i += 1
		}
	}
}
