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

package bootstrap_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"k8s.io/utils/ptr"
)

type fakeCloud struct {
	sync.Mutex
	vpcs         map[string]string
	subnets      map[string]*ec2types.Subnet
	subnetGroups map[string][]string
	pending      int
	failOn       map[string]error
	calls        []string
	next         int
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		vpcs:         map[string]string{},
		subnets:      map[string]*ec2types.Subnet{},
		subnetGroups: map[string][]string{},
		failOn:       map[string]error{},
	}
}

func (f *fakeCloud) record(op string) error {
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeCloud) id(prefix string) string {
	f.next++
	return fmt.Sprintf("%s-%04d", prefix, f.next)
}

// state reports "pending" for the first f.pending describes, then "available".
func (f *fakeCloud) state() string {
	if f.pending > 0 {
		f.pending--
		return "pending"
	}

	return "available"
}

func (f *fakeCloud) CreateVpc(_ context.Context, _ *ec2.CreateVpcInput, _ ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("CreateVpc"); err != nil {
		return nil, err
	}

	id := f.id("vpc")
	f.vpcs[id] = "pending"

	return &ec2.CreateVpcOutput{Vpc: &ec2types.Vpc{VpcId: ptr.To(id)}}, nil
}

func (f *fakeCloud) DescribeVpcs(_ context.Context, in *ec2.DescribeVpcsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeVpcsOutput, error) {
	f.Lock()
	defer f.Unlock()

	out := &ec2.DescribeVpcsOutput{}

	for _, id := range in.VpcIds {
		if _, ok := f.vpcs[id]; ok {
			out.Vpcs = append(out.Vpcs, ec2types.Vpc{VpcId: ptr.To(id), State: ec2types.VpcState(f.state())})
		}
	}

	return out, nil
}

func (f *fakeCloud) DeleteVpc(_ context.Context, in *ec2.DeleteVpcInput, _ ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("DeleteVpc"); err != nil {
		return nil, err
	}

	delete(f.vpcs, *in.VpcId)

	return &ec2.DeleteVpcOutput{}, nil
}

func (f *fakeCloud) CreateSubnet(_ context.Context, in *ec2.CreateSubnetInput, _ ...func(*ec2.Options),
) (*ec2.CreateSubnetOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("CreateSubnet " + *in.AvailabilityZone); err != nil {
		return nil, err
	}

	s := &ec2types.Subnet{
		SubnetId:         ptr.To(f.id("subnet")),
		VpcId:            in.VpcId,
		AvailabilityZone: in.AvailabilityZone,
		CidrBlock:        in.CidrBlock,
	}
	f.subnets[*s.SubnetId] = s

	return &ec2.CreateSubnetOutput{Subnet: s}, nil
}

func (f *fakeCloud) DescribeSubnets(_ context.Context, in *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeSubnetsOutput, error) {
	f.Lock()
	defer f.Unlock()

	out := &ec2.DescribeSubnetsOutput{}

	for _, id := range in.SubnetIds {
		if s, ok := f.subnets[id]; ok {
			c := *s
			c.State = ec2types.SubnetState(f.state())
			out.Subnets = append(out.Subnets, c)
		}
	}

	return out, nil
}

func (f *fakeCloud) DeleteSubnet(_ context.Context, in *ec2.DeleteSubnetInput, _ ...func(*ec2.Options),
) (*ec2.DeleteSubnetOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("DeleteSubnet " + *in.SubnetId); err != nil {
		return nil, err
	}

	delete(f.subnets, *in.SubnetId)

	return &ec2.DeleteSubnetOutput{}, nil
}

func (f *fakeCloud) CreateDBSubnetGroup(_ context.Context, in *awsrds.CreateDBSubnetGroupInput, _ ...func(*awsrds.Options),
) (*awsrds.CreateDBSubnetGroupOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("CreateDBSubnetGroup"); err != nil {
		return nil, err
	}

	f.subnetGroups[*in.DBSubnetGroupName] = in.SubnetIds

	return &awsrds.CreateDBSubnetGroupOutput{}, nil
}

func (f *fakeCloud) DeleteDBSubnetGroup(_ context.Context, in *awsrds.DeleteDBSubnetGroupInput, _ ...func(*awsrds.Options),
) (*awsrds.DeleteDBSubnetGroupOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := f.record("DeleteDBSubnetGroup"); err != nil {
		return nil, err
	}

	delete(f.subnetGroups, *in.DBSubnetGroupName)

	return &awsrds.DeleteDBSubnetGroupOutput{}, nil
}
