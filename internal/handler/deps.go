package handler

import (
	"foodgram/backend/internal/media"
	"foodgram/backend/internal/shortlink"
)

// Dependencies are the collaborators handlers need beyond database.DB and
// config.AppConfig.
type Dependencies struct {
	Media media.Store
	Links *shortlink.Codec
}

var deps Dependencies

// Configure installs the handler dependencies. It must be called before the
// router serves requests.
func Configure(d Dependencies) {
	deps = d
}
