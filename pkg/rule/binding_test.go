package rule_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin/binding"

	"github.com/yeisme/pixels/pkg/rule"
)

type boundFirst struct {
	Title string   `json:"title"     rule:"notblank"`
	URLs  []string `json:"imageURLs" rule:"required,min=1,dive,url"`
}

// TestMain 让 gin 在 rule 初始化之前先校验一次 boundFirst，模拟请求先于其他校验到达.
func TestMain(m *testing.M) {
	_ = binding.Validator.ValidateStruct(&boundFirst{})

	os.Exit(m.Run())
}

// TestValidateStruct_AfterGinBinding 测试 gin 先缓存类型后 rule 规则仍然生效.
func TestValidateStruct_AfterGinBinding(t *testing.T) {
	cases := map[string]boundFirst{
		"blank title":  {Title: "  ", URLs: []string{"https://a.example/x.png"}},
		"missing urls": {Title: "sunset"},
		"invalid url":  {Title: "sunset", URLs: []string{"not a url"}},
	}

	for name, in := range cases {
		if err := rule.ValidateStruct(&in); err == nil {
			t.Errorf("%s: expected validation error, got nil", name)
		}
	}

	ok := boundFirst{Title: "sunset", URLs: []string{"https://a.example/x.png"}}
	if err := rule.ValidateStruct(&ok); err != nil {
		t.Errorf("unexpected error for valid struct: %v", err)
	}

	if err := binding.Validator.ValidateStruct(&boundFirst{}); err != nil {
		t.Errorf("gin binding should ignore rule tags, got %v", err)
	}
}
