package authz

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	policyTable   = "casbin_rule"
	groupingPtype = "g"
)

var (
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrUnknownRole 角色不存在
	ErrUnknownRole = errors.New("unknown role")
)

// Policy 一条 (主体, 路由, 方法) 授权规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 后台 RBAC，策略与角色关系持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// newRBACModel 角色继承 + keyMatch2 路由匹配，动作 * 为通配
func newRBACModel() model.Model {
	m := model.NewModel()
	m.AddDef("r", "r", "sub, obj, act")
	m.AddDef("p", "p", "sub, obj, act")
	m.AddDef("g", "g", "_, _")
	m.AddDef("e", "e", "some(where (p.eft == allow))")
	m.AddDef("m", "m", `(g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)`)
	return m
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: nil db")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", policyTable)
	if err != nil {
		return nil, fmt.Errorf("authz: adapter: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(newRBACModel(), adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceAdmin 判定管理员能否以 act 方法访问 obj 路由
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// HasRole 角色是否已登记（挂在锚点下）
func (s *Service) HasRole(role string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	name, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	return s.registered(name)
}

func (s *Service) registered(role string) (bool, error) {
	if role == roleAnchor {
		return false, nil
	}
	return s.enforcer.HasNamedGroupingPolicy(groupingPtype, role, roleAnchor)
}

// ListRoles 已登记角色，按名称排序
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	links, err := s.enforcer.GetFilteredNamedGroupingPolicy(groupingPtype, 1, roleAnchor)
	if err != nil {
		return nil, fmt.Errorf("authz: list roles: %w", err)
	}
	roles := make([]string, 0, len(links))
	for _, link := range links {
		if len(link) > 0 {
			roles = append(roles, link[0])
		}
	}
	slices.Sort(roles)
	return roles, nil
}

// GetRolePolicies 角色自身的策略，不含继承
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	name, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, name)
	if err != nil {
		return nil, fmt.Errorf("authz: role policies: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) >= 3 {
			policies = append(policies, Policy{
				Subject: strings.TrimSpace(rule[0]),
				Object:  NormalizeObject(rule[1]),
				Action:  NormalizeAction(rule[2]),
			})
		}
	}
	return policies, nil
}

// SetAdminRoles 整体替换管理员角色；任一角色未登记则不做任何修改
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if adminID == 0 {
		return errors.New("authz: admin id is required")
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := NormalizeRole(role)
		if err != nil {
			return err
		}
		ok, err := s.registered(name)
		if err != nil {
			return fmt.Errorf("authz: check role: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRole, strings.TrimPrefix(name, rolePrefix))
		}
		names = append(names, name)
	}

	subject := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy(groupingPtype, 0, subject); err != nil {
		return fmt.Errorf("authz: clear roles: %w", err)
	}
	for _, name := range names {
		if _, err := s.enforcer.AddNamedGroupingPolicy(groupingPtype, subject, name); err != nil {
			return fmt.Errorf("authz: assign role: %w", err)
		}
	}
	return nil
}

// GetAdminRoles 管理员直接持有的角色
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	assigned, err := s.enforcer.GetRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("authz: admin roles: %w", err)
	}
	roles := slices.DeleteFunc(slices.Clone(assigned), func(role string) bool {
		return !strings.HasPrefix(role, rolePrefix) || role == roleAnchor
	})
	slices.Sort(roles)
	return roles, nil
}
