package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/internal/repo"
	"github.com/Skotchmaster/quickcart/pkg/hash"
)

type UserEntry struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type File struct {
	Users []UserEntry `yaml:"users"`
}

type UserCreator interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
}

func LoadFile(filename string) (File, error) {
	var f File
	file, err := os.Open(filename)
	if err != nil {
		return f, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return f, fmt.Errorf("seed: decode %s: %w", filename, err)
	}
	return f, nil
}

// Users creates every user of the file that does not exist yet. Existing users keep
// their password. It returns how many users were created.
func Users(ctx context.Context, users UserCreator, entries []UserEntry, log *slog.Logger) (int, error) {
	created := 0
	for i, e := range entries {
		name := strings.TrimSpace(e.Username)
		if name == "" || e.Password == "" {
			return created, fmt.Errorf("seed: entry %d: username and password are required", i)
		}

		h, err := hash.HashPassword(e.Password)
		if err != nil {
			return created, fmt.Errorf("seed: hash password of %s: %w", name, err)
		}

		err = users.CreateUserIfNotExists(ctx, &models.User{Username: name, PasswordHash: h})
		switch {
		case errors.Is(err, repo.ErrUserAlreadyExist):
			log.Info("seed_user_exists", "username", name)
		case err != nil:
			return created, fmt.Errorf("seed: create %s: %w", name, err)
		default:
			created++
			log.Info("seed_user_created", "username", name)
		}
	}
	return created, nil
}

func FromFile(ctx context.Context, users UserCreator, filename string, log *slog.Logger) (int, error) {
	f, err := LoadFile(filename)
	if err != nil {
		return 0, err
	}
	return Users(ctx, users, f.Users, log)
}
