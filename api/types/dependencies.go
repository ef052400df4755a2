package types

import (
	"github.com/surfscribe/annotator-api/internal/database"
	"github.com/surfscribe/annotator-api/internal/services/sessions"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB             *database.DB
	SessionService sessions.Service
}
