package service

import (
	"fmt"
	"log"

	"carbooking/internal/db"
)

const dateFormat = "02.01.2006"

// NotifyService composes and sends booking notifications. Delivery
// failures are logged, never propagated: a confirmed reservation stands
// whether or not the user got the message.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (n *NotifyService) SendReservationConfirmed(user *db.User, vehicle *db.Vehicle, res *db.Reservation) {
	subject := fmt.Sprintf("Your booking %s is confirmed", res.Code)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking is confirmed.\n\n"+
			"Booking code: %s\n"+
			"Vehicle: %s %s\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Total: %s\n\n"+
			"Thank you for booking with us.",
		user.Name, res.Code, vehicle.Brand, vehicle.Model,
		res.StartDate.Format(dateFormat), res.EndDate.Format(dateFormat),
		res.TotalPrice.StringFixed(2),
	)

	if user.Email != "" {
		if err := SendEmailWithSendGrid(user.Email, user.Name, subject, body); err != nil {
			log.Printf("Email for booking %s failed: %v", res.Code, err)
		}
	}
	if user.Phone != "" {
		sms := fmt.Sprintf("Booking %s confirmed: %s %s, %s-%s. Details in your email.",
			res.Code, vehicle.Brand, vehicle.Model,
			res.StartDate.Format("02.01"), res.EndDate.Format("02.01"))
		if err := SendSMS(user.Phone, sms); err != nil {
			log.Printf("SMS for booking %s failed: %v", res.Code, err)
		}
	}
}
