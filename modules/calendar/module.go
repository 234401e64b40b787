package calendar

import (
	"eventra/core/cache"
	"eventra/core/database"
	"eventra/core/middleware"
	"eventra/core/queue"
	"eventra/modules/auth"
	"eventra/modules/calendar/controller"
	"eventra/modules/calendar/router"
	"eventra/modules/calendar/service"
	"eventra/modules/calendar/tasks"
	syncWorker "eventra/modules/calendar/worker"
	eventRepository "eventra/modules/event/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.Database, cacheStore cache.Cache, worker *queue.Server) {
	calendarService := GetService(db, cacheStore)
	calendarController := controller.NewCalendarController(calendarService)

	mw := middleware.NewMiddleware()
	router.NewCalendarRouter(calendarController).Setup(e, mw)

	// Background mirror of local event changes onto Google Calendar.
	eventRepo := eventRepository.NewEventRepository(&db)
	handler := syncWorker.NewSyncHandler(eventRepo, calendarService)
	worker.HandleFunc(tasks.TypeEventSync, handler.HandleEventSync)
}

// GetService creates a CalendarService instance for use by other modules.
func GetService(db database.Database, cacheStore cache.Cache) service.CalendarService {
	return service.NewCalendarService(auth.GetService(db, cacheStore))
}
