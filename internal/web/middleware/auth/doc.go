// Package auth provides the page middleware of the admin area.
//
// Anonymous visitors of admin pages are redirected to the login page, users that
// already hold a session skip the login page. The session itself is parsed by
// the session middleware of the auth package, which must run first.
package auth
