// Command crateindex is the CLI entrypoint exercising the catalog, fuzzy
// duplicate engine, path template organizer and profile manager as a
// non-GUI shell around the core library.
package main

func main() {
	execute()
}
