package main

import "log"

func main() {

	server, err := InitializeCheckoutServer()
	if err != nil {
		log.Fatal(err)
		return
	}

	if err = server.Run(server.Address()); err != nil {
		log.Fatal(err.Error())
	}

}
