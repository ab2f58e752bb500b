package main

import (
	"log/slog"
	"os"

	"github.com/remnantdom/ALSDI-school-finance-cloud/config"
	"github.com/remnantdom/ALSDI-school-finance-cloud/internal/routes"
	"github.com/remnantdom/ALSDI-school-finance-cloud/models"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	if err := migrate(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	slog.Info("Starting server", "port", config.C.Port)
	if err := r.Run(":" + config.C.Port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// migrate creates the schema and seeds the role rows the route guards
// reference.
func migrate() error {
	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Student{},
		&models.FeeSchedule{},
		&models.Payment{},
	); err != nil {
		return err
	}

	for _, name := range []string{models.RoleAdmin, models.RoleRegistrar, models.RoleFinance} {
		var role models.Role
		if err := config.DB.Where("name = ?", name).FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
