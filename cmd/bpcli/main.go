// bpcli is a small admin CLI for inspecting the allowance engine: holiday
// calendars and tariff classification, without going through the API.
package main

func main() {
	Execute()
}
