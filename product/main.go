package main

import "github.com/giovaniif/fusion-store/product/cmd/api"

func main() {
	api.StartServer()
}
