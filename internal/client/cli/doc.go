// Package cli is the terminal front end of the burger client.
//
// NewApp opens the credential database and builds the gateway and the
// state store. App.Run restores the session, loads the menu and then reads
// commands until "quit" or end of input. Commands only call store
// operations and print the resulting snapshot, so everything the user sees
// comes from state.
package cli
