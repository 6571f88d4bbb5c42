package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
)

type profilesRepo struct {
	db DBTX
}

const profileColumns = `id, email, name, business_name, subscription_plan, created_at, updated_at`

func (r *profilesRepo) Insert(ctx context.Context, p domain.Profile) error {
	ts := now()
	if p.SubscriptionPlan == "" {
		p.SubscriptionPlan = domain.PlanFree
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.Name, p.BusinessName, string(p.SubscriptionPlan), ts, ts,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM users WHERE id = ?`, id)

	var (
		p    domain.Profile
		plan string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.BusinessName, &plan, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	parsed, err := domain.ParsePlan(plan)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, err)
	}
	p.SubscriptionPlan = parsed
	return p, nil
}

func (r *profilesRepo) Update(ctx context.Context, u domain.ProfileUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.BusinessName != nil {
		sets = append(sets, "business_name = ?")
		args = append(args, *u.BusinessName)
	}

	if len(sets) == 0 {
		// Nothing to write, but still report a missing row.
		_, err := r.GetByID(ctx, u.ID)
		return err
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now(), u.ID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
