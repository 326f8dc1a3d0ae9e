// Package auth decides who may do what in the admin area.
//
// A request is authenticated by a signed session token (see Signer) carrying the user's
// email, the legacy role string and, for accounts created after roles existed, a role id.
// Every check reloads the user, so a role change applies to sessions issued before it.
//
// # Administrators
//
// A caller is an administrator when any of its role assertions is admin-equivalent:
// the name of the stored role, or the legacy role string of the session. Both sources are
// kept until every account has been moved onto a stored role (see role.MigrateRoles).
//
// # Menu sections
//
// Non administrators reach the sections their role holds a permission for. Reading the
// permissions of an admin-equivalent role inserts dashboard and settings when missing.
// Accounts without any role see every section.
//
// Example usage:
//
//	authService := auth.NewService(db)
//	app.Use(auth.Session(signer, revocations))
//	app.Get("/api/users", authService.RequireAdmin(), handler)
//	app.Get("/api/admin/blog", authService.RequireMenu(menu.Blog), handler)
package auth
