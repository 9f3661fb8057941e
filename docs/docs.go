// Package docs holds the swagger spec served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "lintang birda saputra"
        },
        "license": {
            "name": "GNU Affero General Public License v3.0",
            "url": "https://www.gnu.org/licenses/gpl-3.0.en.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/edits": {
            "post": {
                "description": "apply lane closures, lane type changes and turn bans, then rebuild every vehicle pathfinder",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["network"],
                "summary": "edit the lane network",
                "parameters": [
                    {
                        "description": "network edits",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/rest.EditsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.EditsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/network-gaps": {
            "post": {
                "description": "route every trip by car and by bike and count the high stress roads on the bike routes of trips that pass the filters",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "find bike network gaps",
                "parameters": [
                    {
                        "description": "trips and filters",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/rest.NetworkGapsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.NetworkGapsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/pathfind": {
            "post": {
                "description": "shortest lane-level path for a car, bike or bus, optionally auditing bike routes for unused bike lanes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pathfinding"],
                "summary": "lane-level shortest path",
                "parameters": [
                    {
                        "description": "start, end and vehicle mode",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/rest.PathfindRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.PathfindResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        }
    },
    "definitions": {
        "rest.BikeLaneFinding": {
            "type": "object",
            "properties": {
                "bike_lane": {"type": "integer"},
                "bike_lane_cost": {"type": "integer"},
                "lane": {"type": "integer"},
                "lane_cost": {"type": "integer"},
                "turn": {"$ref": "#/definitions/rest.Turn"}
            }
        },
        "rest.EditsRequest": {
            "type": "object",
            "properties": {
                "banned_turns": {"type": "array", "items": {"$ref": "#/definitions/rest.Turn"}},
                "changed_lane_types": {"type": "array", "items": {"$ref": "#/definitions/rest.LaneTypeChange"}},
                "closed_lanes": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "rest.EditsResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "rest.ErrResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "status": {"type": "string"},
                "validation": {"type": "array", "items": {"type": "string"}}
            }
        },
        "rest.Filters": {
            "type": "object",
            "properties": {
                "max_biking_distance": {"type": "number", "minimum": 0},
                "max_biking_time_s": {"type": "number", "minimum": 0},
                "max_driving_time_s": {"type": "number", "minimum": 0}
            }
        },
        "rest.LaneTypeChange": {
            "type": "object",
            "required": ["lane", "type"],
            "properties": {
                "lane": {"type": "integer"},
                "type": {"type": "string", "enum": ["driving", "biking", "bus", "sidewalk", "construction"]}
            }
        },
        "rest.NetworkGapsRequest": {
            "type": "object",
            "required": ["trips"],
            "properties": {
                "filters": {"$ref": "#/definitions/rest.Filters"},
                "trips": {"type": "array", "items": {"$ref": "#/definitions/rest.Trip"}}
            }
        },
        "rest.NetworkGapsResponse": {
            "type": "object",
            "properties": {
                "num_filtered_trips": {"type": "integer"},
                "roads": {"type": "array", "items": {"$ref": "#/definitions/rest.RoadCount"}}
            }
        },
        "rest.PathfindRequest": {
            "type": "object",
            "required": ["mode"],
            "properties": {
                "audit": {"type": "boolean"},
                "end": {"$ref": "#/definitions/rest.Position"},
                "mode": {"type": "string", "enum": ["car", "bike", "bus"]},
                "start": {"$ref": "#/definitions/rest.Position"}
            }
        },
        "rest.PathfindResponse": {
            "type": "object",
            "properties": {
                "cost": {"type": "number"},
                "findings": {"type": "array", "items": {"$ref": "#/definitions/rest.BikeLaneFinding"}},
                "length": {"type": "number"},
                "mode": {"type": "string"},
                "steps": {"type": "array", "items": {"$ref": "#/definitions/rest.Step"}},
                "unit": {"type": "string"}
            }
        },
        "rest.Position": {
            "type": "object",
            "required": ["lane"],
            "properties": {
                "dist_along": {"type": "number", "minimum": 0},
                "lane": {"type": "integer"}
            }
        },
        "rest.RoadCount": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "road": {"type": "integer"}
            }
        },
        "rest.Step": {
            "type": "object",
            "properties": {
                "lane": {"type": "integer"},
                "turn": {"$ref": "#/definitions/rest.Turn"},
                "type": {"type": "string"}
            }
        },
        "rest.Trip": {
            "type": "object",
            "properties": {
                "destination": {"$ref": "#/definitions/rest.Position"},
                "origin": {"$ref": "#/definitions/rest.Position"}
            }
        },
        "rest.Turn": {
            "type": "object",
            "properties": {
                "dst": {"type": "integer"},
                "parent": {"type": "integer"},
                "src": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "navigatorx-lanes API",
	Description:      "lane-level routing engine in go. Contraction Hierarchies per vehicle mode, bidirectional Dijkstra queries and a bike network gap analysis",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
