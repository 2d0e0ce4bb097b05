package booking

import (
	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics: *sql.DB, *dbmetrics.DB и транзакции из контекста
type DBExecutor = dbmetrics.DBExecutor
