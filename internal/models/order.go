package models

import "time"

// Order 订单表，收货地址为下单时快照
type Order struct {
	ID            uint   `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo       string `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID        uint   `gorm:"index;not null" json:"user_id"`                             // 用户ID
	CartID        uint   `gorm:"index;not null" json:"cart_id"`                             // 来源购物车
	Status        string `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	Currency      string `gorm:"type:varchar(8);not null" json:"currency"`                  // 币种
	TotalAmount   Money  `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额（下单时冻结）
	StockDeducted bool   `gorm:"not null;default:false" json:"stock_deducted"`              // 是否已扣减库存
	PaymentMethod string `gorm:"type:varchar(20);default:''" json:"payment_method"`         // 支付方式

	ShipFullName  string   `gorm:"type:varchar(120)" json:"ship_full_name"` // 收货人快照
	ShipMobile    string   `gorm:"type:varchar(20)" json:"ship_mobile"`     // 电话快照
	ShipStreet    string   `gorm:"type:varchar(255)" json:"ship_street"`
	ShipArea      string   `gorm:"type:varchar(120)" json:"ship_area"`
	ShipCity      string   `gorm:"type:varchar(80)" json:"ship_city"`
	ShipState     string   `gorm:"type:varchar(80)" json:"ship_state"`
	ShipPincode   string   `gorm:"type:varchar(12)" json:"ship_pincode"`
	ShipCountry   string   `gorm:"type:varchar(60)" json:"ship_country"`
	ShipLatitude  *float64 `json:"ship_latitude,omitempty"`
	ShipLongitude *float64 `json:"ship_longitude,omitempty"`

	ExpiresAt   *time.Time `gorm:"index" json:"expires_at"`   // 待支付过期时间
	PaidAt      *time.Time `gorm:"index" json:"paid_at"`      // 支付时间
	ConfirmedAt *time.Time `gorm:"index" json:"confirmed_at"` // 确认（扣库存）时间
	ShippedAt   *time.Time `json:"shipped_at"`                // 发货时间
	DeliveredAt *time.Time `json:"delivered_at"`              // 送达时间
	CanceledAt  *time.Time `gorm:"index" json:"canceled_at"`  // 取消时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`   // 创建时间
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项快照
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
