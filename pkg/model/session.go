package model

// Tier is the privilege tier of a Session.
type Tier string

const (
	// TierNone is an anonymous session.
	TierNone Tier = "none"
	// TierMaster is the infrastructure operator, authenticated with the master key.
	TierMaster Tier = "master"
	// TierTenantUser is a member of exactly one tenant company.
	TierTenantUser Tier = "tenant-user"
)

// Identity is the authenticated principal of a session.
// For tenant users it mirrors the backend's user record.
type Identity struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Email     string     `json:"email,omitempty"`
	Role      UserRole   `json:"role"`
	CompanyID *string    `json:"empresa_id,omitempty"`
	Phone     string     `json:"telefone,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
}

// MasterIdentity is the synthetic principal used for master sessions.
var MasterIdentity = Identity{
	ID:   "master",
	Name: "Super Administrator",
	Role: RoleMaster,
}

// Session is the client's belief about the current authenticated actor.
type Session struct {
	Tier       Tier            `json:"tier"`
	Token      string          `json:"-"` // bearer token (never rendered)
	Identity   Identity        `json:"identity"`
	Company    *CompanySummary `json:"company,omitempty"`
	MasterFlag bool            `json:"-"`
}

// AnonymousSession returns the session of an unauthenticated client.
func AnonymousSession() Session {
	return Session{Tier: TierNone}
}

// NewMasterSession returns a master-tier session with the synthetic identity.
func NewMasterSession() Session {
	return Session{
		Tier:       TierMaster,
		Identity:   MasterIdentity,
		MasterFlag: true,
	}
}

// NewTenantSession builds a tenant-user session from a verified login.
func NewTenantSession(res LoginResult) Session {
	return Session{
		Tier:     TierTenantUser,
		Token:    res.Token,
		Identity: res.User,
		Company:  res.Company,
	}
}

// IsAuthenticated reports whether the session belongs to a known actor.
func (s Session) IsAuthenticated() bool {
	return s.Tier == TierMaster || s.Tier == TierTenantUser
}

// IsMaster reports whether the session is a master session.
func (s Session) IsMaster() bool {
	return s.Tier == TierMaster
}

// IsTenant reports whether the session is a tenant-user session.
func (s Session) IsTenant() bool {
	return s.Tier == TierTenantUser
}

// CompanyID returns the owning company of a tenant session, or "".
func (s Session) CompanyID() string {
	if s.Tier != TierTenantUser || s.Identity.CompanyID == nil {
		return ""
	}
	return *s.Identity.CompanyID
}

// CanManageUsers reports whether the actor may create, edit or remove users.
// Master may manage any company; tenant users need the admin role.
func (s Session) CanManageUsers() bool {
	switch s.Tier {
	case TierMaster:
		return true
	case TierTenantUser:
		return s.Identity.Role == RoleAdmin
	default:
		return false
	}
}

// Valid checks the tier invariants of a tenant identity: a tenant user always
// belongs to a company and never carries the master role.
func (id Identity) Valid() bool {
	if id.ID == "" || id.CompanyID == nil || *id.CompanyID == "" {
		return false
	}
	return id.Role == RoleAdmin || id.Role == RoleUser
}
