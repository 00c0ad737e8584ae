package domain

import "errors"

var ErrAccountNotFound = errors.New("account not found")

// DemoCredential is the shared password of the seeded demo accounts.
const DemoCredential = "123456"

// Account is an entry of the known-identity list used to check credentials.
type Account struct {
	Identity
	PasswordHash string `json:"-"`
}

// DemoAccount pairs a seeded identity with its plaintext credential. It only
// exists so the directory can be seeded; the plaintext never leaves startup.
type DemoAccount struct {
	Identity   Identity
	Credential string
}

// DemoAccounts returns the fixed demo accounts, one per role.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Identity:   Identity{ID: "1", Name: "Dr. Carlos Silva", Email: "dr.carlos@visioncare.com", Role: RoleDoctor},
			Credential: DemoCredential,
		},
		{
			Identity:   Identity{ID: "2", Name: "Ana Secretária", Email: "ana@visioncare.com", Role: RoleStaff},
			Credential: DemoCredential,
		},
		{
			Identity:   Identity{ID: "3", Name: "João Paciente", Email: "joao@email.com", Role: RolePatient},
			Credential: DemoCredential,
		},
	}
}
