package auth

type authIdentity struct {
	id    string
	name  string
	email string
	role  string
}

// NewIdentity builds an Identity from raw account attributes. The repository
// layer uses it to adapt user records without this package importing models.
func NewIdentity(id, name, email, role string) Identity {
	return authIdentity{id: id, name: name, email: email, role: role}
}

func (i authIdentity) ID() string    { return i.id }
func (i authIdentity) Name() string  { return i.name }
func (i authIdentity) Email() string { return i.email }
func (i authIdentity) Role() string  { return i.role }

// claimsIdentity lets the refresh flow re-issue tokens straight from verified
// refresh claims, without a database read.
type claimsIdentity struct {
	claims AuthClaims
}

func (c claimsIdentity) ID() string    { return c.claims.UserID() }
func (c claimsIdentity) Name() string  { return "" }
func (c claimsIdentity) Email() string { return "" }
func (c claimsIdentity) Role() string  { return c.claims.Role() }
