/*
SPDX-License-Identifier: Apache-2.0

Copyright Contributors to the Submariner project.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
)

// GetParameters returns every parameter of a DB parameter group in the order the API returns them,
// following the Marker across pages. A missing group yields no parameters and no error.
func (c *Client) GetParameters(ctx context.Context, group string) ([]accessor.Record, error) {
	paginator := awsrds.NewDescribeDBParametersPaginator(c.api, &awsrds.DescribeDBParametersInput{
		DBParameterGroupName: aws.String(group),
	})

	var params []types.Parameter

	for paginator.HasMorePages() {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		page, err := paginator.NextPage(ctx)
		if isFault[*types.DBParameterGroupNotFoundFault](err) {
			return nil, nil
		}

		if err != nil {
			return nil, errors.Wrapf(err, "error describing parameters of DB parameter group %q", group)
		}

		params = append(params, page.Parameters...)
	}

	return toRecords(params)
}

// GetClusterParameters is GetParameters for a DB cluster parameter group.
func (c *Client) GetClusterParameters(ctx context.Context, group string) ([]accessor.Record, error) {
	paginator := awsrds.NewDescribeDBClusterParametersPaginator(c.api, &awsrds.DescribeDBClusterParametersInput{
		DBClusterParameterGroupName: aws.String(group),
	})

	var params []types.Parameter

	for paginator.HasMorePages() {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		page, err := paginator.NextPage(ctx)
		if isFault[*types.DBParameterGroupNotFoundFault](err) {
			return nil, nil
		}

		if err != nil {
			return nil, errors.Wrapf(err, "error describing parameters of DB cluster parameter group %q", group)
		}

		params = append(params, page.Parameters...)
	}

	return toRecords(params)
}

const sourceUser = "user"

// UserParameterValues indexes the parameters overridden by the user by name.
func UserParameterValues(params []accessor.Record) map[string]string {
	values := map[string]string{}

	for _, p := range params {
		if p.String("Source") != sourceUser {
			continue
		}

		values[p.String("ParameterName")] = p.String("ParameterValue")
	}

	return values
}

func toRecords(params []types.Parameter) ([]accessor.Record, error) {
	records := make([]accessor.Record, 0, len(params))

	for i := range params {
		r, err := accessor.ToRecord(params[i])
		if err != nil {
			return nil, err
		}

		records = append(records, r)
	}

	return records, nil
}
