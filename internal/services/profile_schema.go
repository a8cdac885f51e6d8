package services

// profileSchema describes the shape the model is asked to return. It is only
// used to report deviations; normalization never rejects on it.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "fullName": {"type": "string"},
    "title": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "summary": {"type": "string"},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "company": {"type": "string"},
          "position": {"type": "string"},
          "startDate": {"type": "string", "pattern": "^([0-9]{4}(-[0-9]{2})?)?$"},
          "endDate": {"type": "string", "pattern": "^([0-9]{4}(-[0-9]{2})?)?$"},
          "current": {"type": "boolean"},
          "description": {"type": "string"}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "institution": {"type": "string"},
          "degree": {"type": "string"},
          "field": {"type": "string"},
          "graduationYear": {"type": "string", "pattern": "^([0-9]{4})?$"}
        }
      }
    },
    "skills": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["fullName", "experience", "education", "skills"]
}`
