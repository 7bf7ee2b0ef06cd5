package echoServer

import (
	"github.com/labstack/echo/v4"

	"rentalservice/app/echoServer/controller/customer"
	"rentalservice/app/echoServer/controller/events"
	"rentalservice/app/echoServer/controller/notification"
	"rentalservice/app/echoServer/controller/rental"
)

type C struct {
	Rental       *rental.Controller
	Customer     *customer.Controller
	Notification *notification.Controller
	Events       *events.Controller
}

func Register(e *echo.Echo, c C) {
	v1 := e.Group("/v1")

	// Rentals
	v1.POST("/rentals", c.Rental.Create)
	v1.POST("/rentals/:id/return", c.Rental.Return)
	v1.GET("/rentals", c.Rental.List)
	v1.GET("/rentals/active", c.Rental.Active)
	v1.GET("/rentals/overdue", c.Rental.Overdue)
	v1.GET("/rentals/:id", c.Rental.Detail)
	v1.PUT("/rentals/:id", c.Rental.Amend)
	v1.DELETE("/rentals/:id", c.Rental.Delete)

	// Customers
	v1.POST("/customers", c.Customer.Create)
	v1.PUT("/customers/:id", c.Customer.Update)
	v1.DELETE("/customers/:id", c.Customer.Delete)
	v1.GET("/customers", c.Customer.List)
	v1.GET("/customers/:id", c.Customer.Detail)
	v1.GET("/customers/by-email/:email", c.Customer.ByEmail)
	v1.GET("/customers/:id/rentals", c.Rental.ByCustomer)

	// Catalog pass-through
	v1.GET("/books/:id/availability", c.Rental.Availability)

	// Inbound catalog push (best-effort side channel)
	v1.POST("/notifications/books", c.Notification.NewBook)

	// Live event stream
	v1.GET("/events", c.Events.Stream)
}
