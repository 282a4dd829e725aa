package product

// Product mirrors a record of the remote catalog. The id is always assigned
// by the remote service.
type Product struct {
	ID                   int         `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Price                float64     `json:"price"`
	Category             string      `json:"category"`
	DiscountPercentage   float64     `json:"discountPercentage,omitempty"`
	Rating               float64     `json:"rating,omitempty"`
	Stock                int         `json:"stock,omitempty"`
	Brand                string      `json:"brand,omitempty"`
	Thumbnail            string      `json:"thumbnail,omitempty"`
	Images               []string    `json:"images,omitempty"`
	Tags                 []string    `json:"tags,omitempty"`
	SKU                  string      `json:"sku,omitempty"`
	Weight               float64     `json:"weight,omitempty"`
	Dimensions           *Dimensions `json:"dimensions,omitempty"`
	WarrantyInformation  string      `json:"warrantyInformation,omitempty"`
	ShippingInformation  string      `json:"shippingInformation,omitempty"`
	AvailabilityStatus   string      `json:"availabilityStatus,omitempty"`
	ReturnPolicy         string      `json:"returnPolicy,omitempty"`
	MinimumOrderQuantity int         `json:"minimumOrderQuantity,omitempty"`
	Meta                 *Meta       `json:"meta,omitempty"`
	Reviews              []Review    `json:"reviews,omitempty"`
	IsDeleted            bool        `json:"isDeleted,omitempty"`
	DeletedOn            string      `json:"deletedOn,omitempty"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Meta struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Barcode   string `json:"barcode"`
	QRCode    string `json:"qrCode"`
}

type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

// ProductInput holds the data for creating a product.
type ProductInput struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=500"`
	Price       float64  `json:"price" validate:"gte=0.01"`
	Category    string   `json:"category" validate:"required"`
	Thumbnail   string   `json:"thumbnail,omitempty" validate:"omitempty,url"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// ProductPatch is a partial update; nil fields are left untouched remotely.
// Set fields are held to the same bounds as ProductInput.
type ProductPatch struct {
	Title       *string   `json:"title,omitempty" validate:"omitnil,min=1,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitnil,min=1,max=500"`
	Price       *float64  `json:"price,omitempty" validate:"omitnil,gte=0.01"`
	Category    *string   `json:"category,omitempty" validate:"omitnil,min=1"`
	Thumbnail   *string   `json:"thumbnail,omitempty" validate:"omitnil,url"`
	Images      *[]string `json:"images,omitempty" validate:"omitnil,dive,url"`
	Stock       *int      `json:"stock,omitempty" validate:"omitnil,gte=0"`
}

// ListFilter selects one of the remote listing endpoints. Search and Category
// are exclusive; Limit and Skip only apply when neither is set.
type ListFilter struct {
	Limit    int
	Skip     int
	Search   string
	Category string
}

// ListResult is the remote list envelope.
type ListResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// ListQuery is what callers of Service.ListProducts ask for. Page is 1-based.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// PageResult is one page of products plus the size of the full result.
type PageResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
