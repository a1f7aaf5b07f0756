package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"household-economy/config"
	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"
	"household-economy/util/crypto"
	"household-economy/web"
	"household-economy/web/service"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			return
		}
	}
}

func showSetting() {
	settings := struct {
		Name              string `json:"name"`
		Version           string `json:"version"`
		DBPath            string `json:"dbPath"`
		WebListen         string `json:"webListen"`
		WebPort           int    `json:"webPort"`
		TokenIssuer       string `json:"tokenIssuer"`
		TokenValidSeconds int    `json:"tokenValidSeconds"`
	}{
		Name:              config.GetName(),
		Version:           config.GetVersion(),
		DBPath:            config.GetDBPath(),
		WebListen:         config.GetWebListen(),
		WebPort:           config.GetWebPort(),
		TokenIssuer:       config.GetTokenIssuer(),
		TokenValidSeconds: config.GetTokenValidSeconds(),
	}

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		fmt.Println("show settings failed:", err)
		return
	}
	fmt.Println(string(out))
}

// resetSystemPassword sets a new password on the seeded system user.
func resetSystemPassword(password string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		fmt.Println("hash password failed:", err)
		return
	}

	db := database.GetDB()
	err = db.Model(model.User{}).
		Where("id = ?", model.SystemUserId).
		Update("password", hash).Error
	if err != nil {
		fmt.Println("set system password failed:", err)
		return
	}
	fmt.Println("system password updated")
}

func grantPermission(userId int64, name string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	permission, err := model.ParsePermission(name)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := service.GrantPermission(userId, permission); err != nil {
		fmt.Println("grant permission failed:", err)
		return
	}
	fmt.Printf("permission %s granted to user %d\n", permission, userId)
}

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use: config.GetName(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Manage settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			password, _ := cmd.Flags().GetString("password")
			if password != "" {
				resetSystemPassword(password)
			}
		},
	}
	updateCmd.Flags().String("password", "", "set system user password")

	var grantCmd = &cobra.Command{
		Use:   "grant",
		Short: "Grant a permission to a user",
		Run: func(cmd *cobra.Command, args []string) {
			userId, _ := cmd.Flags().GetInt64("user-id")
			permission, _ := cmd.Flags().GetString("permission")
			if userId <= 0 || permission == "" {
				fmt.Println("--user-id and --permission are required")
				return
			}
			grantPermission(userId, permission)
		},
	}
	grantCmd.Flags().Int64("user-id", 0, "user to grant the permission to")
	grantCmd.Flags().String("permission", "", "permission name, e.g. ADD_BANK")

	settingCmd.AddCommand(showCmd, updateCmd)
	rootCmd.AddCommand(runCmd, settingCmd, grantCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
