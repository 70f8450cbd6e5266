package auth

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// User is a directory entry with credentials and authorization attributes
type User struct {
	Username      string
	PasswordHash  string
	Roles         []string
	Permissions   []string
	SecurityLevel int
	Department    string
	Region        string
	Attributes    map[string]string
}

// Directory is an in-memory user store backing the demo deployment
type Directory struct {
	mu     sync.RWMutex
	users  map[string]*User
	logger *zap.Logger
}

// NewDirectory creates an empty user directory
func NewDirectory(logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		users:  make(map[string]*User),
		logger: logger,
	}
}

// Add registers a user, hashing the password at the production cost
func (d *Directory) Add(user User, password string) error {
	if user.Username == "" {
		return fmt.Errorf("username is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[user.Username]; exists {
		return fmt.Errorf("user %q already exists", user.Username)
	}
	d.users[user.Username] = &user
	return nil
}

// Authenticate verifies credentials and returns the matching user
func (d *Directory) Authenticate(username, password string) (*User, error) {
	d.mu.RLock()
	user, ok := d.users[username]
	d.mu.RUnlock()

	if !ok {
		d.logger.Warn("Unknown user attempted authentication", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		d.logger.Warn("Password verification failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Lookup returns the user for a username, if present
func (d *Directory) Lookup(username string) (*User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[username]
	return user, ok
}

// Usernames returns the registered usernames
func (d *Directory) Usernames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.users))
	for name := range d.users {
		names = append(names, name)
	}
	return names
}

// NewDemoDirectory seeds the directory with the demo user roster.
// Every builtin policy is passable by at least one of these users and
// deniable by another, which keeps the guarded routes demonstrable.
func NewDemoDirectory(logger *zap.Logger) *Directory {
	d := NewDirectory(logger)

	demo := []struct {
		user     User
		password string
	}{
		{
			user: User{
				Username:      "admin",
				Roles:         []string{"Admin"},
				Permissions:   []string{"system.admin", "catalog.read", "catalog.write", "catalog.delete", "reports.read", "users.read"},
				SecurityLevel: 5,
				Department:    "IT",
				Region:        "Global",
				Attributes:    map[string]string{"employee_id": "emp-1001"},
			},
			password: "Admin123!",
		},
		{
			user: User{
				Username:      "sofia",
				Roles:         []string{"Manager"},
				Permissions:   []string{"catalog.read", "catalog.write", "reports.read"},
				SecurityLevel: 3,
				Department:    "Sales",
				Region:        "North America",
				Attributes:    map[string]string{"employee_id": "emp-1014", "hire_date": "2019-04-01"},
			},
			password: "Manager123!",
		},
		{
			user: User{
				Username:      "priya",
				Roles:         []string{"Analyst"},
				Permissions:   []string{"catalog.read", "reports.read", "reports.export"},
				SecurityLevel: 4,
				Department:    "Finance",
				Region:        "Europe",
				Attributes:    map[string]string{"employee_id": "emp-1032"},
			},
			password: "Analyst123!",
		},
		{
			user: User{
				Username:      "marco",
				Roles:         []string{"Clerk"},
				Permissions:   []string{"catalog.read"},
				SecurityLevel: 1,
				Department:    "Sales",
				Region:        "North America",
				Attributes:    map[string]string{"employee_id": "emp-1077"},
			},
			password: "Clerk123!",
		},
		{
			user: User{
				Username:      "casey",
				Roles:         []string{"Intern"},
				SecurityLevel: 0,
				Attributes:    map[string]string{"employee_id": "emp-1099"},
			},
			password: "Intern123!",
		},
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range demo {
		// Demo fixtures hash at the minimum cost so startup stays fast
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.password), bcrypt.MinCost)
		if err != nil {
			panic(fmt.Sprintf("hash demo password: %v", err))
		}
		user := entry.user
		user.PasswordHash = string(hash)
		d.users[user.Username] = &user
	}

	return d
}
