// Package mysql implements the store interfaces over database/sql with the
// go-sql-driver. Multi-write operations run in a single transaction.
package mysql

import "database/sql"

// Stores bundles the MySQL-backed store implementations around one pool.
type Stores struct {
	Users       *UserStore
	Teams       *TeamStore
	Memberships *MembershipStore
	Tasks       *TaskStore
	Messages    *MessageStore
}

func NewStores(db *sql.DB) *Stores {
	return &Stores{
		Users:       &UserStore{DB: db},
		Teams:       &TeamStore{DB: db},
		Memberships: &MembershipStore{DB: db},
		Tasks:       &TaskStore{DB: db},
		Messages:    &MessageStore{DB: db},
	}
}
