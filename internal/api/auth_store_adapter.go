package api

import "github.com/pairwise-dev/pairwise/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindAdminByEmail(email string) (*services.Admin, error) {
	admin, err := a.store.FindAdminByEmail(email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, nil
	}
	return &services.Admin{ID: admin.ID, Email: admin.Email, PassHash: admin.PassHash, Role: admin.Role, CreatedAt: admin.CreatedAt}, nil
}

func (a *authStoreAdapter) AddAdmin(admin *services.Admin) error {
	if admin == nil {
		return services.NewInvalidError("admin required")
	}
	return a.store.AddAdmin(&Admin{ID: admin.ID, Email: admin.Email, PassHash: admin.PassHash, Role: admin.Role, CreatedAt: admin.CreatedAt})
}

func (a *authStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
