package casestudies

type UpsertRequest struct {
	Slug          string   `json:"slug" validate:"omitempty,slug"`
	Title         string   `json:"title" validate:"required"`
	Client        string   `json:"client" validate:"required"`
	Problem       string   `json:"problem"`
	Solution      string   `json:"solution"`
	Results       string   `json:"results"`
	Technologies  []string `json:"technologies" validate:"omitempty,dive,technology"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Status        string   `json:"status" validate:"omitempty,oneof=publish draft"`
	DateCompleted string   `json:"date_completed" validate:"omitempty,date"`
	FeaturedImage *Image   `json:"featured_image"`
}

type AdminListFilter struct {
	Status     string
	Technology string
}

func (req UpsertRequest) fields(id *int64) Fields {
	return Fields{
		ID:           id,
		Title:        req.Title,
		Client:       req.Client,
		Problem:      req.Problem,
		Solution:     req.Solution,
		Results:      req.Results,
		Technologies: req.Technologies,
		Slug:         req.Slug,
	}
}

func (req UpsertRequest) details() *Details {
	return &Details{
		Status:        req.Status,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		DateCompleted: req.DateCompleted,
		FeaturedImage: req.FeaturedImage,
	}
}
