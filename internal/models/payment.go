package models

import "time"

// Payment 支付记录，幂等键由订单ID确定性生成
type Payment struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                         // 主键
	OrderID        uint       `gorm:"index;not null" json:"order_id"`                               // 订单ID
	Method         string     `gorm:"type:varchar(20);not null" json:"method"`                      // 支付方式
	Status         string     `gorm:"type:varchar(20);index;not null" json:"status"`                // 支付状态
	Amount         Money      `gorm:"type:decimal(20,2);not null" json:"amount"`                    // 支付金额
	Currency       string     `gorm:"type:varchar(8);not null" json:"currency"`                     // 币种
	IdempotencyKey string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"idempotency_key"` // 幂等键
	TransactionRef string     `gorm:"type:varchar(64);index" json:"transaction_ref"`                // 流水号（网关回调预留）
	PaidAt         *time.Time `gorm:"index" json:"paid_at"`                                         // 支付时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                                   // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
