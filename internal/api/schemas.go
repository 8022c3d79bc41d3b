package api

// Request schemas, compiled once at router construction. Validation runs
// before handlers, so handler decoding only deals with well-formed bodies.

const entrySchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["description", "lines"],
  "properties": {
    "description": {"type": "string", "minLength": 1, "maxLength": 255},
    "reference": {"type": "string", "maxLength": 255},
    "date": {"type": "string", "format": "date-time"},
    "lines": {
      "type": "array",
      "minItems": 2,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["account_code", "type", "amount"],
        "properties": {
          "account_code": {"type": "string", "minLength": 1, "maxLength": 50},
          "type": {"type": "string", "enum": ["debit", "credit"]},
          "amount": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    }
  }
}`

const saleSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["warehouse_id", "items"],
  "properties": {
    "warehouse_id": {"type": "string", "minLength": 1},
    "customer_id": {"type": "string"},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["product_id", "qty", "price"],
        "properties": {
          "product_id": {"type": "string", "minLength": 1},
          "qty": {"type": "integer", "exclusiveMinimum": 0},
          "price": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

const purchaseSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["warehouse_id", "items"],
  "properties": {
    "warehouse_id": {"type": "string", "minLength": 1},
    "supplier_id": {"type": "string"},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["product_id", "qty", "cost"],
        "properties": {
          "product_id": {"type": "string", "minLength": 1},
          "qty": {"type": "integer", "exclusiveMinimum": 0},
          "cost": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

const expenseSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["description", "amount"],
  "properties": {
    "description": {"type": "string", "minLength": 1, "maxLength": 255},
    "amount": {"type": "number", "exclusiveMinimum": 0},
    "category": {"type": "string", "maxLength": 50}
  }
}`

const treasurySchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["type", "amount"],
  "properties": {
    "type": {"type": "string", "enum": ["DEPOSIT", "WITHDRAW"]},
    "amount": {"type": "number", "exclusiveMinimum": 0},
    "description": {"type": "string", "maxLength": 255}
  }
}`

const countStartSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["warehouse_id"],
  "properties": {
    "warehouse_id": {"type": "string", "minLength": 1}
  }
}`

const countLineSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["product_id", "counted_qty"],
  "properties": {
    "product_id": {"type": "string", "minLength": 1},
    "counted_qty": {"type": "integer", "minimum": 0}
  }
}`

func requestSchemas() map[string]string {
	return map[string]string{
		"entry":       entrySchema,
		"sale":        saleSchema,
		"purchase":    purchaseSchema,
		"expense":     expenseSchema,
		"treasury":    treasurySchema,
		"count_start": countStartSchema,
		"count_line":  countLineSchema,
	}
}
