package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every json endpoint.
	APIPath = "/api"

	// AdminAPIPath prefixes the json endpoints of the admin area.
	AdminAPIPath = APIPath + "/admin"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
