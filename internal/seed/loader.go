package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/projection"
	"github.com/rs/zerolog"
)

// ItemCreator lo implementa *usecase.ItemUseCase.
type ItemCreator interface {
	Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error)
}

// PlanCreator lo implementa *usecase.PlanUseCase.
type PlanCreator interface {
	CreateInventoryPlan(ctx context.Context, itemID string, in dto.InventoryPlanRequest) (*dto.InventoryPlanResponse, error)
	CreateTransferPlan(ctx context.Context, in dto.TransferPlanRequest) (*dto.TransferPlanResponse, error)
}

// RuleSetter lo implementa *usecase.RuleUseCase.
type RuleSetter interface {
	Put(ctx context.Context, in dto.RuleRequest) (*dto.RuleResponse, error)
}

// UserRegistrar lo implementa *auth.AuthUseCase.
type UserRegistrar interface {
	RegisterUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error)
}

// Summary cuántos registros creó una carga.
type Summary struct {
	Users        int
	SkippedUsers int
	Items        int
	Plans        int
	Transfers    int
	Rule         bool
}

// Loader aplica un Dataset.
type Loader struct {
	users UserRegistrar
	items ItemCreator
	plans PlanCreator
	rules RuleSetter
	now   func() time.Time
	log   zerolog.Logger
}

// NewLoader construye el cargador.
func NewLoader(users UserRegistrar, items ItemCreator, plans PlanCreator, rules RuleSetter, now func() time.Time, log zerolog.Logger) *Loader {
	return &Loader{users: users, items: items, plans: plans, rules: rules, now: now, log: log}
}

// Load crea usuarios, regla, ítems, planes y traslados en ese orden. Los usuarios ya
// existentes se omiten; cualquier otro error detiene la carga.
func (l *Loader) Load(ctx context.Context, ds *Dataset) (Summary, error) {
	var sum Summary
	today := projection.Today(l.now())

	for _, u := range ds.Users {
		_, err := l.users.RegisterUser(ctx, dto.CreateUserRequest{Email: u.Email, Password: u.Password, Name: u.Name, Role: u.Role})
		if errors.Is(err, domain.ErrDuplicate) {
			sum.SkippedUsers++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		sum.Users++
	}

	if ds.Rule != nil {
		if _, err := l.rules.Put(ctx, dto.RuleRequest{Name: ds.Rule.Name, MinAllowed: ds.Rule.MinAllowed}); err != nil {
			return sum, fmt.Errorf("rule: %w", err)
		}
		sum.Rule = true
	}

	ids := make(map[string]string, len(ds.Items))
	for _, it := range ds.Items {
		created, err := l.items.Create(ctx, dto.CreateItemRequest{Name: it.Name, Amount: it.Amount})
		if err != nil {
			return sum, fmt.Errorf("item %s: %w", it.Key, err)
		}
		ids[it.Key] = created.ID
		sum.Items++
		for _, p := range it.InventoryPlans {
			start := projection.AddDays(today, p.StartInDays)
			_, err := l.plans.CreateInventoryPlan(ctx, created.ID, dto.InventoryPlanRequest{
				PlanType:  p.Type,
				StartDate: start.Format(dto.DateLayout),
				EndDate:   projection.AddDays(start, p.Days).Format(dto.DateLayout),
				DailyRate: p.DailyRate,
			})
			if err != nil {
				return sum, fmt.Errorf("plan %s/%s: %w", it.Key, p.Type, err)
			}
			sum.Plans++
		}
	}

	for _, tr := range ds.Transfers {
		_, err := l.plans.CreateTransferPlan(ctx, dto.TransferPlanRequest{
			FromItemID:     ids[tr.From],
			ToItemID:       ids[tr.To],
			ShipDate:       projection.AddDays(today, tr.ShipInDays).Format(dto.DateLayout),
			ArrivalDate:    projection.AddDays(today, tr.ArrivalInDays).Format(dto.DateLayout),
			TransferAmount: tr.Amount,
		})
		if err != nil {
			return sum, fmt.Errorf("transfer %s->%s: %w", tr.From, tr.To, err)
		}
		sum.Transfers++
	}

	l.log.Info().
		Int("users", sum.Users).
		Int("skipped_users", sum.SkippedUsers).
		Int("items", sum.Items).
		Int("plans", sum.Plans).
		Int("transfers", sum.Transfers).
		Bool("rule", sum.Rule).
		Msg("datos cargados")
	return sum, nil
}
