package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/term"

	"github.com/stolasapp/albumtest/internal/config"
	"github.com/stolasapp/albumtest/internal/storage"
)

type (
	configKey     struct{}
	configPathKey struct{}
)

func prompt(prompt string, mask bool) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := os.Stderr.WriteString(prompt); err != nil {
			return nil, err
		}
	}
	return readLine(os.Stdin, mask)
}

// cloned from term.readPasswordLine.
func readLine(stdin *os.File, mask bool) ([]byte, error) {
	if mask && term.IsTerminal(int(stdin.Fd())) {
		line, err := term.ReadPassword(int(stdin.Fd()))
		_, _ = os.Stderr.WriteString("\n")
		return line, err
	}
	var buf [1]byte
	var ret []byte

	for {
		n, err := stdin.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
				// otherwise ignore \n
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
				// otherwise ignore \r
			default:
				ret = append(ret, buf[0]) //nolint:gosec // erroneous error
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("config file resolution failed")
	}
	return cfg, slog.Default(), nil
}

func loadStore(ctx context.Context) (*config.Config, *slog.Logger, storage.Store, error) {
	cfg, logger, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := storage.NewDB(ctx, cfg.DBFilepath, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, store, nil
}

// resolveCredentials prompts for missing credentials when attached to a
// terminal.
func resolveCredentials(cfg *config.Config) error {
	if cfg.RequireCredentials() == nil {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return config.ErrMissingCredentials
	}
	if cfg.Login == "" {
		resp, err := prompt("login: ", false)
		if err != nil {
			return err
		}
		cfg.Login = strings.TrimSpace(string(resp))
	}
	if cfg.Password == "" {
		resp, err := prompt("password: ", true)
		if err != nil {
			return err
		}
		cfg.Password = string(resp)
	}
	return cfg.RequireCredentials()
}
