package docsite

// Version is the module release identifier surfaced by the CLI.
const Version = "0.1.0"
