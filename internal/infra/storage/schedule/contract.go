package schedule

import (
	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
