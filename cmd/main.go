// cmd/main.go
package main

import (
	"finease-api/app"
)

// @title           FinEase API
// @version         1.0
// @description     CRUD service over personal finance transactions stored in MongoDB.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
func main() {
	app.Run()
}
