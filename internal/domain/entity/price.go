package entity

type PriceCategory struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

type PriceItem struct {
	Category string `json:"category" yaml:"category"`
	Name     string `json:"name" yaml:"name"`
	Price    string `json:"price" yaml:"price"`
	Quality  string `json:"quality" yaml:"quality"`
	Trend    string `json:"trend" yaml:"trend"` // up, down, stable
}

// MaterialOption is one of the materials a household can pick when
// creating a request, with the default price label used for estimates.
type MaterialOption struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Price string `json:"price" yaml:"price"`
	Unit  string `json:"unit" yaml:"unit"`
}
