package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"time"

	"posadmin/internal/apperr"
	"posadmin/internal/auth"
	"posadmin/internal/model"
	"posadmin/internal/query"
	"posadmin/internal/repository"
	"posadmin/internal/storage"
)

// Searchable column selectors accepted by the user listing.
const (
	UserTextFieldUserName = 1
	UserTextFieldEmail    = 2
)

// UserListItem is the outward-facing row shape of the user listing and the
// spreadsheet export.
type UserListItem struct {
	UserID          int             `json:"userId"`
	UserName        string          `json:"userName"`
	Email           string          `json:"email"`
	Image           *model.AssetRef `json:"image"`
	AuthType        string          `json:"authType"`
	AuditCreateDate time.Time       `json:"auditCreateDate"`
	State           int             `json:"state"`
	StateUser       string          `json:"stateUser"`
}

// UserDetail is the single-record shape returned by GetByID.
type UserDetail struct {
	UserID   int             `json:"userId"`
	UserName string          `json:"userName"`
	Email    string          `json:"email"`
	Image    *model.AssetRef `json:"image"`
	AuthType string          `json:"authType"`
	State    int             `json:"state"`
}

// SelectOption is the id/description pair consumed by dropdowns.
type SelectOption struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// UserRequest carries the write-path input for Register and Edit.
// Password may be empty on Edit, meaning "keep the stored hash". Image is
// optional on both paths.
type UserRequest struct {
	UserName string
	Email    string
	Password string
	AuthType string
	State    int
	Image    *storage.Upload
}

// UserService coordinates the user record lifecycle together with its
// profile-image asset. Write operations sequence the asset write and the
// record write without a transaction spanning both stores: an asset saved
// just before a failed insert stays behind as an orphan, by policy.
type UserService interface {
	List(ctx context.Context, spec query.Spec) (*query.Page[UserListItem], error)
	ListSelect(ctx context.Context) ([]SelectOption, error)
	GetByID(ctx context.Context, id int) (*UserDetail, error)
	Register(ctx context.Context, req UserRequest) error
	Edit(ctx context.Context, id int, req UserRequest) error
	Remove(ctx context.Context, id int) error
}

type userService struct {
	repo      repository.UserRepository
	assets    storage.AssetStore
	hasher    auth.PasswordHasher
	container string
}

// NewUserService constructs a UserService. container names the asset-store
// container holding profile images.
func NewUserService(repo repository.UserRepository, assets storage.AssetStore, hasher auth.PasswordHasher, container string) UserService {
	return &userService{repo: repo, assets: assets, hasher: hasher, container: container}
}

// userFields binds the query pipeline to the user record. The sort table is
// the entity's full enumerated sortable set; anything else is rejected.
var userFields = query.Fields[model.User]{
	ID:        func(u model.User) int { return u.ID },
	Text: map[int]func(model.User) string{
		UserTextFieldUserName: func(u model.User) string { return u.UserName },
		UserTextFieldEmail:    func(u model.User) string { return u.Email },
	},
	State:     func(u model.User) int { return u.State },
	CreatedAt: func(u model.User) time.Time { return u.CreatedAt },
	Sort: map[string]query.Comparator[model.User]{
		"userName":        func(a, b model.User) int { return cmp.Compare(a.UserName, b.UserName) },
		"email":           func(a, b model.User) int { return cmp.Compare(a.Email, b.Email) },
		"state":           func(a, b model.User) int { return cmp.Compare(a.State, b.State) },
		"auditCreateDate": func(a, b model.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

func toUserListItem(u model.User) UserListItem {
	return UserListItem{
		UserID:          u.ID,
		UserName:        u.UserName,
		Email:           u.Email,
		Image:           u.Image,
		AuthType:        u.AuthType,
		AuditCreateDate: u.CreatedAt,
		State:           u.State,
		StateUser:       model.StateLabel(u.State),
	}
}

func (s *userService) List(ctx context.Context, spec query.Spec) (*query.Page[UserListItem], error) {
	const op = "user.list"
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.E(apperr.Persistence, op, err)
	}
	return query.Execute(spec, users, userFields, toUserListItem)
}

func (s *userService) ListSelect(ctx context.Context) ([]SelectOption, error) {
	const op = "user.listselect"
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.E(apperr.Persistence, op, err)
	}
	opts := make([]SelectOption, 0, len(users))
	for _, u := range users {
		if u.State != model.StateActive {
			continue
		}
		opts = append(opts, SelectOption{ID: u.ID, Description: u.UserName})
	}
	return opts, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*UserDetail, error) {
	const op = "user.byid"
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, op, err)
		}
		return nil, apperr.E(apperr.Persistence, op, err)
	}
	return &UserDetail{
		UserID:   u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Image:    u.Image,
		AuthType: u.AuthType,
		State:    u.State,
	}, nil
}

func (s *userService) Register(ctx context.Context, req UserRequest) error {
	const op = "user.register"
	if req.UserName == "" || req.Email == "" || req.Password == "" {
		return apperr.Errorf(apperr.Validation, op, "userName, email and password are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apperr.E(apperr.Unexpected, op, err)
	}

	u := model.User{
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		AuthType:     req.AuthType,
		State:        req.State,
		CreatedAt:    time.Now().UTC(),
	}

	if req.Image != nil {
		if err := ctx.Err(); err != nil {
			return apperr.E(apperr.Unexpected, op, err)
		}
		ref, err := s.assets.Save(ctx, s.container, *req.Image)
		if err != nil {
			return apperr.E(apperr.Storage, op, err)
		}
		u.Image = &ref
	}

	if err := ctx.Err(); err != nil {
		// The asset (if any) was already written; nothing references it
		// yet, so stopping here orphans it rather than losing bytes a
		// record could point at.
		return apperr.E(apperr.Unexpected, op, err)
	}
	if _, err := s.repo.Create(ctx, &u); err != nil {
		if u.Image != nil {
			// Asset written, record insert failed: the orphan stays. No
			// compensating delete, per the weak-consistency policy.
			logJSON(map[string]any{
				"level":     "error",
				"msg":       "asset_orphaned_on_create",
				"container": u.Image.Container,
				"key":       u.Image.Key,
			})
		}
		return apperr.E(apperr.Persistence, op, err)
	}
	return nil
}

func (s *userService) Edit(ctx context.Context, id int, req UserRequest) error {
	const op = "user.edit"
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, op, err)
		}
		return apperr.E(apperr.Persistence, op, err)
	}

	merged := *existing
	merged.UserName = req.UserName
	merged.Email = req.Email
	merged.AuthType = req.AuthType
	merged.State = req.State

	// An omitted password keeps the stored hash; it is never overwritten
	// with an empty credential.
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return apperr.E(apperr.Unexpected, op, err)
		}
		merged.PasswordHash = hash
	}

	if req.Image != nil {
		if err := ctx.Err(); err != nil {
			return apperr.E(apperr.Unexpected, op, err)
		}
		var prev model.AssetRef
		if existing.Image != nil {
			prev = *existing.Image
		}
		ref, err := s.assets.Replace(ctx, s.container, *req.Image, prev)
		if err != nil {
			return apperr.E(apperr.Storage, op, err)
		}
		merged.Image = &ref
	}

	if err := ctx.Err(); err != nil {
		return apperr.E(apperr.Unexpected, op, err)
	}
	if err := s.repo.Update(ctx, &merged); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Removed concurrently; last write wins at the repository, a
			// vanished row just reports not found.
			return apperr.E(apperr.NotFound, op, err)
		}
		return apperr.E(apperr.Persistence, op, err)
	}
	return nil
}

func (s *userService) Remove(ctx context.Context, id int) error {
	const op = "user.remove"
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, op, err)
		}
		return apperr.E(apperr.Persistence, op, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.E(apperr.Persistence, op, err)
	}

	// Record is gone; the asset delete is best effort and never rolls the
	// record deletion back.
	if u.Image != nil {
		if err := s.assets.Remove(ctx, *u.Image); err != nil {
			logJSON(map[string]any{
				"level":     "warn",
				"msg":       "asset_delete_failed_on_remove",
				"container": u.Image.Container,
				"key":       u.Image.Key,
				"error":     err.Error(),
			})
		}
	}
	return nil
}
