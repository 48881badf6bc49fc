package hearth

// Version of the library and CLI.
const Version = "0.1.0"
