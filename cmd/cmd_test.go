package cmd

import (
	"context"
	"testing"

	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/progress"
)

func TestFormatScores(t *testing.T) {
	if got := formatScores(progress.ChapterProgress{}); got != "-" {
		t.Errorf("empty = %q, want -", got)
	}
	cp := progress.ChapterProgress{HighestLevel: 2, HighScores: map[int]int{1: 120, 2: 95}}
	if got := formatScores(cp); got != "L1:120 L2:95" {
		t.Errorf("got %q", got)
	}
}

func TestPlayerNames(t *testing.T) {
	got := playerNames([]string{"progress/ana", "progress/", "progress/ben", "settings"})
	if len(got) != 2 || got[0] != "ana" || got[1] != "ben" {
		t.Fatalf("playerNames = %v, want [ana ben]", got)
	}
}

func TestBuildOracle_OfflineProvider(t *testing.T) {
	t.Setenv("MATHQUEST_LLM_PROVIDER", "offline")

	orc, offline := buildOracle(context.Background(), &config.Config{}, nil)
	if !offline {
		t.Fatal("expected offline oracle")
	}
	if _, ok := orc.(*oracle.Local); !ok {
		t.Fatalf("oracle = %T, want *oracle.Local", orc)
	}
}

func TestResolveDBPath_Explicit(t *testing.T) {
	path := t.TempDir() + "/nested/game.db"
	got, err := resolveDBPath(&config.Config{DB: path})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
}
