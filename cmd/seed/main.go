// Command seed fills a development database with demo accounts and
// services. It refuses to run when APP_ENV is production-like.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"txunajob/internal/config"
	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/logging"
	"txunajob/internal/modules/auth"
	"txunajob/internal/modules/lifecycle"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/jwt"
	"txunajob/internal/repository"
)

const demoPassword = "demo_pass_123"

var errAlreadySeeded = errors.New("demo data already present")

type summary struct {
	Accounts int
	Services int
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production environment")
	}

	store := database.Open(cfg.DatabaseURL, database.Options{ConnectTimeout: cfg.StoreTimeout}, log)
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := seed(ctx, store, jwt.New(cfg.JWTSecret, cfg.JWTTTL), log)
	switch {
	case errors.Is(err, errAlreadySeeded):
		log.Info("demo data already present, nothing to do")
	case err != nil:
		log.WithError(err).Fatal("seeding failed")
	default:
		log.WithFields(logrus.Fields{"accounts": s.Accounts, "services": s.Services}).Info("demo data seeded")
	}
}

type demoAccount struct {
	role domain.Role
	req  auth.RegisterRequest
}

var demoAccounts = []demoAccount{
	{domain.RoleProfessional, auth.RegisterRequest{Username: "carlos_eletricista", Email: "carlos@txunajob.local", FullName: "Carlos Muchanga", Specialty: "Electrician", Experience: 8, HourlyRate: 450, Location: "Maputo"}},
	{domain.RoleProfessional, auth.RegisterRequest{Username: "lucia_canalizadora", Email: "lucia@txunajob.local", FullName: "Lúcia Mondlane", Specialty: "Plumber", Experience: 5, HourlyRate: 380, Location: "Matola"}},
	{domain.RoleClient, auth.RegisterRequest{Username: "maria_silva", Email: "maria@txunajob.local", FullName: "Maria Silva", Location: "Maputo"}},
	{domain.RoleClient, auth.RegisterRequest{Username: "joao_carlos", Email: "joao@txunajob.local", FullName: "João Carlos", Location: "Beira"}},
}

func seed(ctx context.Context, store *database.Store, tokens *jwt.Service, log *logrus.Logger) (summary, error) {
	accounts := repository.NewAccountRepository(store)
	profiles := repository.NewProfileRepository(store)
	identity := auth.NewService(accounts, profiles, tokens, "", log)
	engine := lifecycle.NewService(repository.NewServiceRepository(store), log)

	var out summary
	actors := make(map[string]*access.Actor, len(demoAccounts))
	for _, d := range demoAccounts {
		req := d.req
		req.Password = demoPassword
		account, err := identity.Register(ctx, d.role, req)
		if errors.Is(err, auth.ErrDuplicateHandle) || errors.Is(err, auth.ErrDuplicateEmail) {
			return out, errAlreadySeeded
		}
		if err != nil {
			return out, fmt.Errorf("register %s: %w", req.Username, err)
		}
		actors[req.Username] = &access.Actor{ID: account.ID, Role: account.Role}
		out.Accounts++
	}

	carlos, lucia := actors["carlos_eletricista"], actors["lucia_canalizadora"]
	maria, joao := actors["maria_silva"], actors["joao_carlos"]
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	create := func(pro *access.Actor, req lifecycle.CreateServiceRequest) (int64, error) {
		svc, err := engine.Create(ctx, pro, req)
		if err != nil {
			return 0, fmt.Errorf("create %q: %w", req.Title, err)
		}
		out.Services++
		return svc.ID, nil
	}

	wiring, err := create(carlos, lifecycle.CreateServiceRequest{Title: "Residential wiring", Category: "electrical", Price: 2500, Address: "Bairro Central, Maputo", DurationMinutes: 240, Tags: []byte(`["wiring","residential"]`)})
	if err != nil {
		return out, err
	}
	repair, err := create(carlos, lifecycle.CreateServiceRequest{Title: "Socket repair", Category: "electrical", Price: 600, ScheduledDate: &tomorrow, Tags: []byte(`"repair, quick"`)})
	if err != nil {
		return out, err
	}
	if _, err := create(lucia, lifecycle.CreateServiceRequest{Title: "Fix sink", Category: "plumbing", Price: 500, Location: "Matola"}); err != nil {
		return out, err
	}

	steps := []struct {
		name string
		run  func() (*domain.Service, error)
	}{
		{"request wiring", func() (*domain.Service, error) { return engine.Request(ctx, maria, wiring) }},
		{"accept wiring", func() (*domain.Service, error) { return engine.Accept(ctx, carlos, wiring) }},
		{"start wiring", func() (*domain.Service, error) { return engine.Start(ctx, carlos, wiring) }},
		{"complete wiring", func() (*domain.Service, error) { return engine.Complete(ctx, carlos, wiring) }},
		{"review wiring", func() (*domain.Service, error) {
			return engine.Review(ctx, maria, wiring, lifecycle.ReviewRequest{Rating: 5, Comment: "Excellent work, very tidy."})
		}},
		{"request repair", func() (*domain.Service, error) { return engine.Request(ctx, joao, repair) }},
	}
	for _, step := range steps {
		if _, err := step.run(); err != nil {
			return out, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return out, nil
}
