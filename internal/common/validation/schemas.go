package validation

// CountryDataset describes a country dataset file. Level values are free
// strings on purpose: unknown levels score as missing data.
var CountryDataset = MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "code": {"type": ["string", "null"]},
      "education_level": {"type": ["string", "null"]},
      "cost_level": {"type": ["number", "string", "null"]},
      "economic_opportunity_level": {"type": ["string", "null"]},
      "safety_level": {"type": ["string", "null"]},
      "healthcare_level": {"type": ["string", "null"]},
      "climate_preference": {"type": ["string", "null"]},
      "population": {"type": ["number", "null"]},
      "gdp_per_capita": {"type": ["number", "null"]}
    }
  }
}`)

// QuizAnswers describes the answers object in job variables, keyed by
// decimal question id.
var QuizAnswers = MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"pattern": "^[1-9][0-9]*$"},
  "additionalProperties": {"type": "string"}
}`)
