package rbac

import (
	"log"
	"sync"

	"github.com/casbin/casbin/v2"

	"github.com/sawa0358/hr-system-2025-sub003/internal/domain"
)

// Privileged leave actions: only roles granted the matching policy may
// run them. Force transitions on non-PENDING requests always require one.
const (
	ResourceLeaveRequest = "leave_request"
	ResourceLeaveLot     = "leave_lot"
	ResourceLeaveConfig  = "leave_config"

	ActionRead        = "read"
	ActionCreate      = "create"
	ActionApprove     = "approve"
	ActionForceEdit   = "force_edit"
	ActionForceDelete = "force_delete"
	ActionGrant       = "grant"
	ActionManage      = "manage"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)
	RequiresPrivilege(action string) bool
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: role_permissions=%d", len(rolePerms))

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		log.Printf("rbac enforce result: role=%s resource=%s action=%s err=%v", req.Role, req.Resource, req.Action, err)
		return false, err
	}

	log.Printf("rbac enforce result: role=%s resource=%s action=%s allowed=%t", req.Role, req.Resource, req.Action, allowed)

	return allowed, nil
}

// RequiresPrivilege reports whether the action may only be run by a
// privileged caller regardless of request ownership.
func (s *service) RequiresPrivilege(action string) bool {
	switch action {
	case ActionApprove, ActionForceEdit, ActionForceDelete, ActionGrant, ActionManage:
		return true
	default:
		return false
	}
}
