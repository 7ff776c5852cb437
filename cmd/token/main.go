// Command token mints an access token for a user id and role. Login is handled
// outside this service; the token is for local use and scripts.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/config"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id placed in the user_id claim")
	role := flag.String("role", string(user.RoleViewer), "one of admin, hr, accountant, viewer")
	flag.Parse()

	if *userID == "" || !user.Role(*role).IsValid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
