// Package seed creates demo and fake data for development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"recordhub/internal/middleware"
	"recordhub/internal/repository"
	"recordhub/internal/service"
)

// DemoPassword is the password every seeded account logs in with.
const DemoPassword = "password123"

// DemoUsers are the accounts a fresh installation starts with.
var DemoUsers = []service.RegisterInput{
	{Name: "أحمد محمد", Email: "ahmed@example.com", Phone: "0501234567", Password: DemoPassword},
	{Name: "سارة علي", Email: "sara@example.com", Phone: "0559876543", Password: DemoPassword},
}

// Registrar creates an account the same way the public API does.
type Registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
}

// SeedDemoUsers registers each demo account that does not exist yet and
// returns how many were created. Running it twice creates nothing new.
func SeedDemoUsers(ctx context.Context, users repository.UserRepository, registrar Registrar) (int, error) {
	created := 0
	for _, in := range DemoUsers {
		existing, err := users.GetByEmail(ctx, in.Email)
		if err != nil {
			return created, fmt.Errorf("lookup %s: %w", in.Email, err)
		}
		if existing != nil {
			continue
		}
		if _, err := registrar.Register(ctx, in); err != nil {
			return created, fmt.Errorf("register %s: %w", in.Email, err)
		}
		created++
	}

	if created > 0 {
		middleware.Logger.Info("seeded demo users", slog.Int("count", created))
	}
	return created, nil
}
