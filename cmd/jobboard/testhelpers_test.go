package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"

	"github.com/smileynet/jobboard/internal/api/apitest"
	"github.com/smileynet/jobboard/internal/config"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// testApp wires an app against srv with a file token store in a temp dir.
func testApp(t *testing.T, srv *apitest.Server) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.APIURL()
	cfg.API.RateLimit = 0
	cfg.Session.Backend = "file"
	cfg.Session.TokenFile = filepath.Join(t.TempDir(), "token")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	a, err := newApp(&cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

// loggedInApp is testApp with the admin already logged in.
func loggedInApp(t *testing.T, srv *apitest.Server) *app {
	t.Helper()
	a := testApp(t, srv)
	if err := a.sess.Login(context.Background(), a.client, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("login: %v", err)
	}
	return a
}
