package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/database"
)

const leaseKey = "db_lease"

var errNoLease = errors.New("no database lease on request")

// DBLease attaches a lazily acquired connection lease to the request and
// returns the connection to the pool once the handler chain has finished,
// whether it returned normally or panicked.
func DBLease(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lease := database.NewLease(db)
		c.Set(leaseKey, lease)
		defer func() {
			if err := lease.Release(); err != nil {
				log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to release connection")
			}
		}()
		c.Next()
	}
}

// Querier returns the request's leased connection, acquiring it on first use.
func Querier(c *gin.Context) (database.Querier, error) {
	v, ok := c.Get(leaseKey)
	if !ok {
		return nil, errNoLease
	}
	return v.(*database.Lease).Get(c.Request.Context())
}
