package authz

import (
	"fmt"
	"strconv"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Policies are kept per user: p, user:<id>, <module>, <action>. A super
// admin gets a single wildcard policy.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

const wildcard = "*"

type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func subject(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

// SetUser replaces every policy of the user with the given privileges.
func (a *Authorizer) SetUser(userID int, role user.Role, privileges user.Privileges) error {
	sub := subject(userID)
	if _, err := a.enforcer.RemoveFilteredPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to clear policies of %s: %w", sub, err)
	}

	var rules [][]string
	if role == user.RoleSuperAdmin {
		rules = append(rules, []string{sub, wildcard, wildcard})
	} else {
		for _, g := range privileges.Grants() {
			rules = append(rules, []string{sub, g[0], g[1]})
		}
	}
	if len(rules) == 0 {
		return nil
	}
	if _, err := a.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("failed to add policies of %s: %w", sub, err)
	}
	return nil
}

// RemoveUser drops every policy of the user.
func (a *Authorizer) RemoveUser(userID int) error {
	_, err := a.enforcer.RemoveFilteredPolicy(0, subject(userID))
	return err
}

// Load registers the policies of every active user.
func (a *Authorizer) Load(users []user.User) error {
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		if err := a.SetUser(u.ID, u.Role, u.Privileges); err != nil {
			return err
		}
	}
	return nil
}

func (a *Authorizer) Enforce(userID int, module user.Module, action user.Action) (bool, error) {
	return a.enforcer.Enforce(subject(userID), string(module), string(action))
}
