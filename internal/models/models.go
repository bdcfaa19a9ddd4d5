package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"password,omitempty"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
	Address     string             `bson:"address" json:"address"`
	Role        string             `bson:"role" json:"role"`
}

type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryName string             `bson:"category_name" json:"category_name"`
	ActiveStatus bool               `bson:"active_status" json:"active_status"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName        string             `bson:"product_name" json:"product_name"`
	ProductDescription string             `bson:"product_description" json:"product_description"`
	UnitPrice          float64            `bson:"unit_price" json:"unit_price"`
	Quantity           int                `bson:"quantity" json:"quantity"`
	InitialQuantity    int                `bson:"initial_quantity" json:"initial_quantity"`
	Image              string             `bson:"image" json:"image"`
	CategoryID         primitive.ObjectID `bson:"category_id" json:"category_id"`
	VendorID           primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
}

// LowStock reports whether quantity has fallen below 20% of the
// last-restocked level. The threshold is ceil(initial/5), so a product
// restocked to 20 is low at 3 remaining but not at 4.
func (p *Product) LowStock() bool {
	if p.InitialQuantity <= 0 {
		return false
	}
	threshold := (p.InitialQuantity + 4) / 5
	return p.Quantity < threshold
}

type ProductListing struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProductID       primitive.ObjectID  `bson:"product_id" json:"product_id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	OrderID         *primitive.ObjectID `bson:"order_id" json:"order_id"`
	Quantity        int                 `bson:"quantity" json:"quantity"`
	Price           float64             `bson:"price" json:"price"`
	ReadyStatus     bool                `bson:"ready_status" json:"ready_status"`
	DeliveredStatus bool                `bson:"delivered_status" json:"delivered_status"`
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderDate      time.Time          `bson:"order_date" json:"order_date"`
	OrderStatus    string             `bson:"order_status" json:"order_status"`
	EditableStatus bool               `bson:"editable_status" json:"editable_status"`
	CancelStatus   bool               `bson:"cancel_status" json:"cancel_status"`
	TotalAmount    float64            `bson:"total_amount" json:"total_amount"`
	CustomerID     primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	OrderItems     []ProductListing   `bson:"order_items" json:"order_items"`
}

type Ranking struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	VendorID primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	Rank     float64            `bson:"rank" json:"rank"`
}

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	VendorID   primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	ReviewNote string             `bson:"review" json:"review_note"`
}

type CancelledOrder struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderDate  time.Time          `bson:"order_date" json:"order_date"`
	OrderID    primitive.ObjectID `bson:"order_id" json:"order_id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	CancelNote string             `bson:"cancel_note" json:"cancel_note"`
}

type NotificationLowStock struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedTime time.Time          `bson:"created_time" json:"created_time"`
	VendorID    primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	Message     string             `bson:"message" json:"message"`
	MarkRead    bool               `bson:"mark_read" json:"mark_read"`
}

type NotificationOrderCancel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedTime time.Time          `bson:"created_time" json:"created_time"`
	OrderID     primitive.ObjectID `bson:"order_id" json:"order_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Message     string             `bson:"message" json:"message"`
	MarkRead    bool               `bson:"mark_read" json:"mark_read"`
}
