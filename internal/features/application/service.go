package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-hr/internal/features/apptype"
	"go-hr/internal/features/user"

	"go.uber.org/zap"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	// ErrTypeNotResolved is surfaced when a transition no-ops because the
	// bundle's type was deleted. The engine itself stays silent; the store
	// converts "nothing changed" into this typed result.
	ErrTypeNotResolved = errors.New("application type cannot be resolved")
	ErrValidation      = errors.New("validation failed")
	ErrNotPermitted    = errors.New("the actor's role may not use this request type")
)

// Tabs the portal renders; used by List.
const (
	TabAll      = "all"
	TabPending  = "pending"
	TabSent     = "sent"
	TabReturned = "returned"
)

type ApplicationService interface {
	List(ctx context.Context, userID, roleID int64, tab string) ([]ApplicationBundle, error)
	Get(ctx context.Context, id, userID, roleID int64) (*ApplicationBundle, error)
	Create(ctx context.Context, requesterID, typeID int64, values []FieldValue) (*ApplicationBundle, error)
	Submit(ctx context.Context, id, actorID int64, comment string, delegateUserID *int64) (*ApplicationBundle, error)
	Approve(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error)
	Reject(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error)
	Resend(ctx context.Context, id, actorID int64, comment string, delegateUserID *int64) (*ApplicationBundle, error)
	Close(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error)
	UpdateValues(ctx context.Context, id, actorID int64, values []FieldValue, comment string) (*ApplicationBundle, error)
	AddAttachment(ctx context.Context, id, actorID int64, draft AttachmentDraft) (*ApplicationBundle, error)
	AssignDelegate(ctx context.Context, id, actorID, forRoleID int64, delegateUserID *int64) (*ApplicationBundle, error)
	// RunAutomation executes one load/sweep/persist cycle; the cron
	// scheduler calls it, and every read and mutation performs the same
	// cycle implicitly.
	RunAutomation(ctx context.Context) error
	ExportExcel(ctx context.Context, userID, roleID int64) ([]byte, string, error)
}

// ApplicationServiceImpl serializes every operation through one mutex: the
// engine is designed for a single-writer, recompute-then-write model, and
// the sweep runs as part of each load.
type ApplicationServiceImpl struct {
	Repo   BundleRepository
	Types  apptype.TypeService
	Users  user.UserService
	Logger *zap.Logger

	mu    sync.Mutex
	alloc *IDAllocator
	now   func() time.Time
}

func NewApplicationService(repo BundleRepository, types apptype.TypeService, users user.UserService, logger *zap.Logger) ApplicationService {
	return &ApplicationServiceImpl{
		Repo:   repo,
		Types:  types,
		Users:  users,
		Logger: logger,
		alloc:  NewIDAllocator(),
		now:    time.Now,
	}
}

// snapshot loads the collection, normalizes it against the current types,
// runs the SLA sweep and persists the result when anything changed. The
// allocator is re-synced from what was actually loaded so ids stay
// collision-free no matter what happened to the stored data in between.
func (s *ApplicationServiceImpl) snapshot(ctx context.Context) ([]ApplicationBundle, TypeLookup, *Engine, error) {
	lookup, err := s.Types.Lookup(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	bundles, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	s.alloc.Sync(bundles)
	engine := NewEngine(lookup, s.alloc, s.now)

	normalized := NormalizeBundles(bundles, lookup)
	swept, mutated := engine.Sweep(normalized)
	if mutated {
		if err := s.Repo.SaveAll(ctx, swept); err != nil {
			return nil, nil, nil, err
		}
		s.alloc.Sync(swept)
	}

	return swept, lookup, engine, nil
}

// mutate applies one transition inside the usual load/sweep cycle and
// persists the outcome. The closure translates the engine's applied flag
// into a typed error so validation failures and unresolved types stay
// distinguishable at the API layer.
func (s *ApplicationServiceImpl) mutate(ctx context.Context, id int64, fn func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error)) (*ApplicationBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundles, lookup, engine, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range bundles {
		if bundles[i].Application.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrApplicationNotFound
	}

	updated, err := fn(engine, bundles[idx])
	if err != nil {
		return nil, err
	}

	// The freshly written state goes through the sweep again, so a
	// zero-second SLA fires on the very save that made the step active.
	bundles[idx] = NormalizeBundle(updated, lookup)
	bundles, _ = engine.Sweep(bundles)

	if err := s.Repo.SaveAll(ctx, bundles); err != nil {
		return nil, err
	}
	s.alloc.Sync(bundles)

	result := bundles[idx]
	return &result, nil
}

func (s *ApplicationServiceImpl) List(ctx context.Context, userID, roleID int64, tab string) ([]ApplicationBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundles, lookup, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]ApplicationBundle, 0, len(bundles))
	for _, bundle := range bundles {
		typ := lookup(bundle.Application.TypeID)
		if !IsVisibleTo(bundle, typ, userID, roleID) {
			continue
		}

		switch tab {
		case TabPending:
			if !IsPendingFor(bundle, typ, userID, roleID) {
				continue
			}
		case TabSent:
			if bundle.Application.RequesterID != userID {
				continue
			}
		case TabReturned:
			if !IsReturned(bundle) {
				continue
			}
		}
		visible = append(visible, bundle)
	}
	return visible, nil
}

func (s *ApplicationServiceImpl) Get(ctx context.Context, id, userID, roleID int64) (*ApplicationBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundles, lookup, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, bundle := range bundles {
		if bundle.Application.ID != id {
			continue
		}
		if !IsVisibleTo(bundle, lookup(bundle.Application.TypeID), userID, roleID) {
			break
		}
		result := bundle
		return &result, nil
	}
	return nil, ErrApplicationNotFound
}

func (s *ApplicationServiceImpl) Create(ctx context.Context, requesterID, typeID int64, values []FieldValue) (*ApplicationBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundles, lookup, engine, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	typ := lookup(typeID)
	if typ == nil {
		return nil, ErrTypeNotResolved
	}
	if len(typ.Flow) == 0 {
		return nil, fmt.Errorf("%w: the request type has no approval flow", ErrValidation)
	}
	if len(typ.AllowedRoleIDs) > 0 {
		roleID, err := s.Users.RoleOf(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !containsID(typ.AllowedRoleIDs, roleID) {
			return nil, ErrNotPermitted
		}
	}

	bundle, applied := engine.Create(typeID, requesterID, values)
	if !applied {
		return nil, ErrTypeNotResolved
	}

	bundles = append(bundles, bundle)
	if err := s.Repo.SaveAll(ctx, bundles); err != nil {
		return nil, err
	}
	s.alloc.Sync(bundles)

	s.Logger.Info("application created",
		zap.Int64("application_id", bundle.Application.ID),
		zap.String("number", bundle.Application.Number),
		zap.Int64("type_id", typeID))
	return &bundle, nil
}

func (s *ApplicationServiceImpl) Submit(ctx context.Context, id, actorID int64, comment string, delegateUserID *int64) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		// Validation failures never reach the transition layer.
		if typ := engine.lookup(bundle.Application.TypeID); typ != nil {
			if err := validateRequiredValues(typ, bundle.Values); err != nil {
				return bundle, err
			}
		}
		return applied(engine.Submit(bundle, actorID, comment, delegateUserID))
	})
}

func (s *ApplicationServiceImpl) Approve(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.Approve(bundle, &actorID, ActionApprove, comment))
	})
}

func (s *ApplicationServiceImpl) Reject(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: a rejection requires a comment", ErrValidation)
	}
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.Reject(bundle, &actorID, ActionReject, comment))
	})
}

func (s *ApplicationServiceImpl) Resend(ctx context.Context, id, actorID int64, comment string, delegateUserID *int64) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.Resend(bundle, actorID, comment, delegateUserID))
	})
}

func (s *ApplicationServiceImpl) Close(ctx context.Context, id, actorID int64, comment string) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.Close(bundle, actorID, comment))
	})
}

func (s *ApplicationServiceImpl) UpdateValues(ctx context.Context, id, actorID int64, values []FieldValue, comment string) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.EditValues(bundle, actorID, values, comment))
	})
}

func (s *ApplicationServiceImpl) AddAttachment(ctx context.Context, id, actorID int64, draft AttachmentDraft) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		typ := engine.lookup(bundle.Application.TypeID)
		if typ != nil {
			if !typ.Capabilities.AllowsAttachments {
				return bundle, fmt.Errorf("%w: this request type does not accept attachments", ErrValidation)
			}
			maxBytes := int64(typ.Capabilities.AttachmentMaxSizeMB) * 1024 * 1024
			if draft.SizeBytes > maxBytes {
				return bundle, fmt.Errorf("%w: attachment exceeds the %d MB limit", ErrValidation, typ.Capabilities.AttachmentMaxSizeMB)
			}
		}
		return applied(engine.AddAttachment(bundle, actorID, draft))
	})
}

func (s *ApplicationServiceImpl) AssignDelegate(ctx context.Context, id, actorID, forRoleID int64, delegateUserID *int64) (*ApplicationBundle, error) {
	return s.mutate(ctx, id, func(engine *Engine, bundle ApplicationBundle) (ApplicationBundle, error) {
		return applied(engine.AssignDelegate(bundle, actorID, forRoleID, delegateUserID))
	})
}

func (s *ApplicationServiceImpl) RunAutomation(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, _, err := s.snapshot(ctx)
	if err != nil {
		s.Logger.Warn("SLA automation sweep failed", zap.Error(err))
	}
	return err
}

// validateRequiredValues checks that every required field of the normalized
// type carries a non-empty value.
func validateRequiredValues(typ *apptype.ApplicationType, values []FieldValue) error {
	byKey := make(map[string]string, len(values))
	for _, value := range values {
		byKey[value.Key] = value.Value
	}
	for _, field := range typ.Fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(byKey[field.Key]) == "" {
			return fmt.Errorf("%w: field %q is required", ErrValidation, field.Key)
		}
	}
	return nil
}

// applied adapts the engine's (bundle, applied) convention: a transition
// that no-ops did so because the type could not be resolved.
func applied(bundle ApplicationBundle, ok bool) (ApplicationBundle, error) {
	if !ok {
		return bundle, ErrTypeNotResolved
	}
	return bundle, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
