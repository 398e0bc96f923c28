// Package docs 注册 Swagger 文档，内容与 handle 包中的注解保持一致，可用 swag init 重新生成.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/images": {
            "get": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "图片列表",
                "parameters": [
                    {"type": "string", "description": "关键字", "name": "search", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "标签", "name": "tags", "in": "query"},
                    {"enum": ["newest", "popular", "hot"], "type": "string", "description": "排序", "name": "sortBy", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ImageListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "创建图片",
                "parameters": [
                    {"description": "图片信息", "name": "images", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateImagesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.ImageListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/images/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "删除图片",
                "parameters": [{"type": "string", "description": "图片 ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ImageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/images/{id}/view": {
            "get": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "记录浏览",
                "parameters": [{"type": "string", "description": "图片 ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ImageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/images/{id}/like": {
            "put": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "点赞",
                "parameters": [{"type": "string", "description": "图片 ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ImageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/images/{id}/unlike": {
            "put": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "取消点赞",
                "parameters": [{"type": "string", "description": "图片 ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ImageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["统计"],
                "summary": "目录统计",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/uploads/sign": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["上传"],
                "summary": "图床上传签名",
                "parameters": [
                    {"description": "待签名参数", "name": "params", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/uploads/presign": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["上传"],
                "summary": "对象存储直传",
                "parameters": [
                    {"description": "文件信息", "name": "file", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PresignUploadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/api/health/{component}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["健康检查"],
                "summary": "组件健康检查",
                "parameters": [{"enum": ["db", "kv", "mq", "s3"], "type": "string", "name": "component", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthStatus"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.HealthStatus"}}
                }
            }
        }
    },
    "definitions": {
        "model.Image": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "imageURL": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "likes": {"type": "integer"},
                "views": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "types.CreateImagesRequest": {
            "type": "object",
            "required": ["title", "imageURLs"],
            "properties": {
                "title": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "imageURLs": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.PresignUploadRequest": {
            "type": "object",
            "required": ["file_name", "content_type"],
            "properties": {
                "file_name": {"type": "string"},
                "content_type": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "types.HealthStatus": {
            "type": "object",
            "properties": {
                "component": {"type": "string"},
                "status": {"type": "string"},
                "type": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "types.ImageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/model.Image"}
            }
        },
        "types.ImageListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Image"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pixels Gallery API",
	Description:      "图片目录后端：创建、查询、浏览、点赞与删除图片记录.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
