// Package deps checks that the external binaries clipper shells out to are
// installed and capable.
package deps
