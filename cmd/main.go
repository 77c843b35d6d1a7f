package main

import api "Daybook"

func main() {
	api.Run()
}
