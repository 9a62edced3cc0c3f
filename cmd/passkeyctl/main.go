package main

import "github.com/jrsteele09/go-passkey-client/cmd/passkeyctl/cmd"

func main() {
	cmd.Execute()
}
