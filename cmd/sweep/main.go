// Command sweep plays a game in the terminal. Commands are read from stdin,
// one per line: "o x y" reveals, "f x y" flags, "r" resets, "q" quits.
package main

import (
	"flag"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/gridsweeper/internal/config"
	"github.com/vancomm/gridsweeper/internal/mines"
)

var (
	log = logrus.New()

	gameSeed string
	randSeed uint64
	logFile  string
)

func init() {
	flag.StringVar(&gameSeed, "game", mines.DefaultParams.Seed(), "game params as size:mines")
	flag.Uint64Var(&randSeed, "seed", 0, "board seed, 0 picks a random one")
	flag.StringVar(&logFile, "log-file", "", "also write rotated json logs to this file")
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to open log file: ", err)
		}
		log.AddHook(hook)
	}

	mines.Log = slog.New(slog.NewTextHandler(
		log.WriterLevel(logrus.DebugLevel), &slog.HandlerOptions{Level: slog.LevelDebug},
	))
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	log.Debug("board seed: ", seed)
	return rand.New(rand.NewPCG(seed, seed))
}

func main() {
	flag.Parse()
	setupLogging()

	params, err := mines.ParseSeed(gameSeed)
	if err != nil {
		log.Fatal(err)
	}

	game, err := mines.New(*params, newRand(randSeed), logObserver{log})
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("game", params.Seed()).Info("game on")

	if err := play(os.Stdin, os.Stdout, game); err != nil {
		log.Fatal("unable to read commands: ", err)
	}
}
