package evaluation

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

// validID reports whether id can be bound to a uuid column. Lookups by an
// id that fails this check match nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
