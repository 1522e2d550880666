package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsHashIsStable(t *testing.T) {
	p := Params{"model": "xgboost", "epochs": 20, "shuffle": true}
	first := p.Hash()
	assert.Len(t, first, 10)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, p.Hash())
	}
}

func TestParamsHashIgnoresInsertionOrder(t *testing.T) {
	a := Params{}
	a["alpha"] = 1
	a["beta"] = 2
	b := Params{}
	b["beta"] = 2
	b["alpha"] = 1
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestParamsHashSeparatesValues(t *testing.T) {
	a := Params{"model": "xgboost"}
	b := Params{"model": "lightgbm"}
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.NotEqual(t, Params{}.Hash(), a.Hash())
}

func TestParamsStringSortsKeys(t *testing.T) {
	p := Params{"zeta": 1, "alpha": "x", "mid": true}
	assert.Equal(t, "alpha=x, mid=true, zeta=1", p.String())
	assert.Equal(t, "", Params{}.String())
}

func TestParamsDecode(t *testing.T) {
	type trainParams struct {
		Model   string `mapstructure:"model"`
		Epochs  int    `mapstructure:"epochs"`
		Shuffle bool   `mapstructure:"shuffle"`
	}
	p := Params{"model": "xgboost", "epochs": "20", "shuffle": true}
	var got trainParams
	require.NoError(t, p.Decode(&got))
	assert.Equal(t, trainParams{Model: "xgboost", Epochs: 20, Shuffle: true}, got)
}

func TestParamsDecodeRejectsBadTarget(t *testing.T) {
	var n int
	assert.Error(t, Params{"a": 1}.Decode(&n))
}
