package main

import "github.com/giovaniif/fusion-store/cart/cmd/api"

func main() {
	api.StartServer()
}
