package models

// Security holds the estate's access PINs. PINs are opaque secrets set by
// the admin and compared by equality; credential storage proper lives in
// the external identity provider.
type Security struct {
	Estate   string `bson:"estate" json:"-"`
	AdminPIN string `bson:"admin_pin" json:"-"`
	AppPIN   string `bson:"app_pin" json:"-"`
}

// Roles granted by PIN verification.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)
