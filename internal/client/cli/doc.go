// Package cli provides the interactive courtbook command-line client.
//
// NewApp wires configuration, the token store, the API client and the
// session controller. App.Run restores a saved session and then blocks in a
// REPL until the user exits.
//
// Every command first navigates the in-process router to the page it
// stands for, so protected commands go through the same guard as the
// browser client: a guest is bounced to "/" and the command fails with a
// "please log in first" message. Owner commands additionally require a
// HOUSE_OWNER account.
//
// When the API client gives up on a session (refresh rejected, or a 401
// with no refresh token) it calls the controller's ForceLogout. The user
// sees "session expired" and lands on the landing page.
package cli
