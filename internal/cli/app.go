// Package cli implements the interactive shell over the vault core. It is
// a thin consumer of the repository, blob storage and session contracts,
// standing in for the mobile UI layer.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/docusafe/docusafe/internal/blobstore"
	"github.com/docusafe/docusafe/internal/config"
	"github.com/docusafe/docusafe/internal/credentials"
	"github.com/docusafe/docusafe/internal/logging"
	"github.com/docusafe/docusafe/internal/repositories/documents"
	"github.com/docusafe/docusafe/internal/securekv"
	"github.com/docusafe/docusafe/internal/services"
	"github.com/docusafe/docusafe/internal/session"
	"github.com/docusafe/docusafe/internal/settings"
)

// App owns the wired-up core and the interactive loop.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	docs     *services.DocumentService
	blobs    *blobstore.Store
	settings *settings.Store
	session  *session.Manager
	reader   *bufio.Reader
	out      *os.File
}

// NewApp opens the data directory, the database and the secure store, and
// wires the services and the session manager together. The host has no
// biometric hardware, so the session gets the NoBiometrics capability.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", c.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := documents.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	kv, err := securekv.NewFileStore(c.SecureDir(), log)
	if err != nil {
		db.Close()
		return nil, err
	}

	blobs := blobstore.New(c.BlobDir())
	docs := services.NewDocumentService(documents.NewSQLiteRepository(db), blobs, log)
	creds := credentials.New(kv)
	sets := settings.New(kv, log)
	sess := session.NewManager(creds, sets, session.NoBiometrics{}, docs, log)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		docs:     docs,
		blobs:    blobs,
		settings: sets,
		session:  sess,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run drives the access gate and the command loop until the user exits.
// Locking from inside the loop drops back to the gate.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	for {
		if err := a.gate(ctx); err != nil {
			return err
		}
		exit, err := a.repl(ctx)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}
