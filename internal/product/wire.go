package product

import (
	"database/sql"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/product/controller"
	"vitrine/internal/product/repository"
	"vitrine/internal/product/service"
)

type Module struct {
	Repository *repository.MySQLRepository
	Service    *service.ProductService
	Controller *controller.Controller
}

func NewModule(db *sql.DB, validate *validatorv10.Validate, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo)
	return &Module{
		Repository: repo,
		Service:    svc,
		Controller: controller.NewController(svc, validate, logger),
	}
}
