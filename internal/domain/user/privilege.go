package user

type Module string

const (
	ModuleEmployees       Module = "employees"
	ModuleLoans           Module = "loans"
	ModuleTrafficChallans Module = "traffic_challans"
	ModuleTimesheets      Module = "timesheets"
	ModulePayrolls        Module = "payrolls"
	ModuleUsers           Module = "users"
	ModuleSetup           Module = "setup"
)

var Modules = []Module{
	ModuleEmployees,
	ModuleLoans,
	ModuleTrafficChallans,
	ModuleTimesheets,
	ModulePayrolls,
	ModuleUsers,
	ModuleSetup,
}

func (m Module) IsValid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var Actions = []Action{ActionView, ActionAdd, ActionEdit, ActionDelete}

func (a Action) IsValid() bool {
	switch a {
	case ActionView, ActionAdd, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// Permissions are the action toggles of one module.
type Permissions struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

func (p Permissions) Allows(a Action) bool {
	switch a {
	case ActionView:
		return p.View
	case ActionAdd:
		return p.Add
	case ActionEdit:
		return p.Edit
	case ActionDelete:
		return p.Delete
	}
	return false
}

// Privileges maps every module to its action toggles.
type Privileges map[Module]Permissions

// Toggle sets one action of a module. Enabling add, edit or delete also
// enables view; disabling view disables every action of the module.
func (p Privileges) Toggle(m Module, a Action, enabled bool) error {
	if !m.IsValid() {
		return ErrUnknownModule
	}
	if !a.IsValid() {
		return ErrUnknownAction
	}

	perm := p[m]
	switch a {
	case ActionView:
		perm.View = enabled
		if !enabled {
			perm = Permissions{}
		}
	case ActionAdd:
		perm.Add = enabled
	case ActionEdit:
		perm.Edit = enabled
	case ActionDelete:
		perm.Delete = enabled
	}
	if enabled {
		perm.View = true
	}
	p[m] = perm
	return nil
}

// Allows reports whether action a on module m is enabled.
func (p Privileges) Allows(m Module, a Action) bool {
	return p[m].Allows(a)
}

// Clone returns an independent copy that always carries every module.
func (p Privileges) Clone() Privileges {
	out := make(Privileges, len(Modules))
	for _, m := range Modules {
		out[m] = p[m]
	}
	return out
}

// Grants lists the enabled (module, action) pairs in module order.
func (p Privileges) Grants() [][2]string {
	var grants [][2]string
	for _, m := range Modules {
		for _, a := range Actions {
			if p.Allows(m, a) {
				grants = append(grants, [2]string{string(m), string(a)})
			}
		}
	}
	return grants
}

var (
	full     = Permissions{View: true, Add: true, Edit: true, Delete: true}
	editable = Permissions{View: true, Add: true, Edit: true}
	viewOnly = Permissions{View: true}
)

// DefaultPrivileges returns the privilege template a new user of role r starts with.
func DefaultPrivileges(r Role) Privileges {
	p := make(Privileges, len(Modules))
	for _, m := range Modules {
		switch r {
		case RoleSuperAdmin:
			p[m] = full
		case RoleAdmin:
			if m == ModuleUsers || m == ModuleSetup {
				p[m] = viewOnly
			} else {
				p[m] = editable
			}
		default:
			if m == ModuleUsers || m == ModuleSetup || m == ModulePayrolls {
				p[m] = Permissions{}
			} else {
				p[m] = viewOnly
			}
		}
	}
	return p
}
