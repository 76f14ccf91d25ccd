package schema

const CatalogChangedSchemaTextV1 = `{
	"type": "record",
	"namespace": "shoplist",
	"name": "catalog_changed",
	"fields": [
		{"name": "key", "type": "string"},
		{"name": "products", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "product",
				"fields": [
					{"name": "id", "type": "long"},
					{"name": "title", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "thumbnail", "type": "string"},
					{"name": "description", "type": "string"},
					{"name": "is_custom", "type": "boolean"}
				]
			}
		}}
	]
}`

type (
	CatalogChangedV1 struct {
		Key      string             `avro:"key"`
		Products []CatalogProductV1 `avro:"products"`
	}

	CatalogProductV1 struct {
		ID          int64   `avro:"id"`
		Title       string  `avro:"title"`
		Price       float64 `avro:"price"`
		Thumbnail   string  `avro:"thumbnail"`
		Description string  `avro:"description"`
		IsCustom    bool    `avro:"is_custom"`
	}
)
